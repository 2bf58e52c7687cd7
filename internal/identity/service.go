package identity

import (
	"context"
	"time"

	"github.com/toxicdevil0/timeout/backend/go-services/internal/verifier"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/logger"
)

const touchTimeout = 5 * time.Second

// Enricher merges verified claims with the durable user record. The record
// is keyed by the verified subject only, never by anything the caller
// supplies alongside the token.
type Enricher struct {
	repo UserRepository
}

func NewEnricher(r UserRepository) *Enricher {
	return &Enricher{repo: r}
}

// Enrich performs at most one store read and zero-or-one write per call.
// Unknown subjects get a record with the default role. On any store failure
// the identity degrades to claim-only with the default role: the business
// handler stays available, at the cost of elevated roles until the store
// recovers. The degraded path is logged since it silently demotes access.
func (e *Enricher) Enrich(ctx context.Context, c *verifier.Claims) *Identity {
	id := &Identity{Sub: c.Subject, Role: RoleMember, Email: c.Email}

	u, err := e.repo.GetBySub(ctx, c.Subject)
	if err != nil {
		logger.Errorf("identity store read failed for sub=%s, serving degraded default-role identity: %v", c.Subject, err)
		return id
	}

	if u == nil {
		created, err := e.repo.Create(ctx, &User{
			Sub:   c.Subject,
			Role:  string(RoleMember),
			Email: c.Email,
		})
		if err != nil {
			logger.Errorf("identity record create failed for sub=%s, serving degraded default-role identity: %v", c.Subject, err)
			return id
		}
		id.LastActive = created.LastActiveAt
		return id
	}

	id.Role = ParseRole(u.Role)
	if u.Email != "" {
		id.Email = u.Email
	}
	id.LastActive = u.LastActiveAt

	// best-effort bookkeeping, detached from the request so a slow store
	// write never delays the call and a failure never fails it
	go func(sub string) {
		ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
		defer cancel()
		if err := e.repo.TouchLastActive(ctx, sub, time.Now().UTC()); err != nil {
			logger.Warnf("last-active touch failed for sub=%s: %v", sub, err)
		}
	}(c.Subject)

	return id
}

// SetRole updates the stored role for a subject. Only the admin surface
// calls this; the enricher itself never writes roles.
func (e *Enricher) SetRole(ctx context.Context, sub string, role Role) error {
	return e.repo.UpdateRole(ctx, sub, role)
}

// GetBySub exposes the durable record for profile-style reads.
func (e *Enricher) GetBySub(ctx context.Context, sub string) (*User, error) {
	return e.repo.GetBySub(ctx, sub)
}

// List returns up to limit user records for the admin surface.
func (e *Enricher) List(ctx context.Context, limit int64) ([]User, error) {
	return e.repo.List(ctx, limit)
}
