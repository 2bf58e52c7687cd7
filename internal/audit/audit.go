package audit

import (
	"context"
	"time"
)

// Kind is the closed set of security event kinds.
type Kind string

const (
	KindAuthFailure  Kind = "auth_failure"
	KindInvalidToken Kind = "invalid_token"
	KindAccessDenied Kind = "access_denied"
)

// Severity of a security event.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is a write-once security event. It is emitted to the audit sink and
// never read back by the middleware.
type Event struct {
	Kind     Kind                   `bson:"kind" json:"kind"`
	Severity Severity               `bson:"severity" json:"severity"`
	Subject  string                 `bson:"subject,omitempty" json:"subject,omitempty"`
	Message  string                 `bson:"message" json:"message"`
	Metadata map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	At       time.Time              `bson:"at" json:"at"`
}

// Recorder receives security events. Implementations are fire-and-forget: a
// failure to record must never fail or delay the call being described.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

// Nop discards all events. Used in tests and when no sink is configured.
type Nop struct{}

func (Nop) Record(ctx context.Context, e Event) {}

// Fanout records each event to every recorder in order.
type Fanout []Recorder

func (f Fanout) Record(ctx context.Context, e Event) {
	for _, r := range f {
		r.Record(ctx, e)
	}
}
