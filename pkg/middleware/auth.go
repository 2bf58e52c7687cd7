package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/toxicdevil0/timeout/backend/go-services/internal/audit"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/identity"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/verifier"
)

const identityKey = "identity"

// Enricher is the minimal enrichment seam the middleware depends on.
// Satisfied by *identity.Enricher and by test fakes.
type Enricher interface {
	Enrich(ctx context.Context, c *verifier.Claims) *identity.Identity
}

// Deps are the collaborators every auth middleware variant shares. Auditor
// may be audit.Nop in tests; it is never nil-checked on the hot path.
type Deps struct {
	Verifier verifier.Verifier
	Enricher Enricher
	Auditor  audit.Recorder
}

// IdentityFrom returns the enriched identity set by RequireAuth/RequireRole.
func IdentityFrom(c *gin.Context) (*identity.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*identity.Identity)
	return id, ok
}

// RequireAuth admits any authenticated caller.
func RequireAuth(d Deps) gin.HandlerFunc {
	return requireRole(d, "")
}

// RequireRole admits callers whose enriched role matches, plus administrators.
func RequireRole(d Deps, role identity.Role) gin.HandlerFunc {
	return requireRole(d, role)
}

// RequireAdmin admits administrators only.
func RequireAdmin(d Deps) gin.HandlerFunc {
	return requireRole(d, identity.RoleAdmin)
}

// OptionalAuth sets the identity when a valid token is presented and lets
// the request through either way. It never rejects and never audits.
func OptionalAuth(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c); ok {
			if claims, err := verify(c.Request.Context(), d.Verifier, raw); err == nil {
				c.Set(identityKey, d.Enricher.Enrich(c.Request.Context(), claims))
			}
		}
		c.Next()
	}
}

// requireRole is the single decision path. The input space has exactly four
// states: no token, invalid token, wrong role, admin-or-matching role.
func requireRole(d Deps, role identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			d.Auditor.Record(c.Request.Context(), audit.Event{
				Kind:     audit.KindAuthFailure,
				Severity: audit.SeverityWarning,
				Message:  "call without bearer token",
				Metadata: map[string]interface{}{"reason": "missing_token", "token_present": false},
			})
			RejectUnauthenticated(c)
			return
		}

		claims, err := verify(c.Request.Context(), d.Verifier, raw)
		if err != nil {
			// the verifier's error text goes to the audit trail only,
			// never to the caller
			d.Auditor.Record(c.Request.Context(), audit.Event{
				Kind:     audit.KindInvalidToken,
				Severity: audit.SeverityWarning,
				Message:  "token verification failed",
				Metadata: map[string]interface{}{
					"reason":        "token_invalid",
					"token_present": true,
					"path":          d.Verifier.Path(),
					"error":         err.Error(),
				},
			})
			RejectUnauthenticated(c)
			return
		}

		id := d.Enricher.Enrich(c.Request.Context(), claims)

		if role != "" && !id.HasRole(role) {
			d.Auditor.Record(c.Request.Context(), audit.Event{
				Kind:     audit.KindAccessDenied,
				Severity: audit.SeverityWarning,
				Subject:  id.Sub,
				Message:  "insufficient role",
				Metadata: map[string]interface{}{
					"required_role": string(role),
					"actual_role":   string(id.Role),
				},
			})
			RejectPermissionDenied(c)
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return "", false
	}
	raw, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", false
	}
	return strings.TrimSpace(raw), true
}

// verify shields the request from anything the verifier does: errors and
// panics both collapse to "no claim".
func verify(ctx context.Context, v verifier.Verifier, raw string) (claims *verifier.Claims, err error) {
	defer func() {
		if r := recover(); r != nil {
			claims, err = nil, fmt.Errorf("verifier panic: %v", r)
		}
	}()
	return v.Verify(ctx, raw)
}
