package audit

import (
	"context"
	"time"

	"github.com/toxicdevil0/timeout/backend/go-services/pkg/logger"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/metrics"
)

// LogRecorder writes security events to the service log. It is the always-on
// sink; the Mongo recorder is layered on top of it via Fanout.
type LogRecorder struct{}

func NewLogRecorder() *LogRecorder { return &LogRecorder{} }

func (r *LogRecorder) Record(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	metrics.SecurityEvents.WithLabelValues(string(e.Kind)).Inc()
	switch e.Severity {
	case SeverityError:
		logger.Errorf("security event kind=%s subject=%s msg=%q meta=%v", e.Kind, e.Subject, e.Message, e.Metadata)
	default:
		logger.Warnf("security event kind=%s subject=%s msg=%q meta=%v", e.Kind, e.Subject, e.Message, e.Metadata)
	}
}
