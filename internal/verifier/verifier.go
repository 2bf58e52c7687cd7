package verifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/toxicdevil0/timeout/backend/go-services/internal/config"
)

// Claims is the minimal verified claim set both trust paths converge on.
// It lives only for the duration of request handling and is never persisted.
type Claims struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Verifier validates a raw bearer token and returns its claims.
// A failed verification is the negative of the success case, not an
// exceptional condition: callers treat any error as "no claim".
type Verifier interface {
	Verify(ctx context.Context, raw string) (*Claims, error)
	// Path identifies the trust path ("provider-oidc", "provider-hmac",
	// "local") for audit metadata. It never appears in caller-visible output.
	Path() string
}

// placeholder secrets that must never be accepted as real HS256 keys.
var placeholderSecrets = map[string]struct{}{
	"":          {},
	"changeme":  {},
	"change-me": {},
	"secret":    {},
	"dev":       {},
}

func isPlaceholderSecret(s string) bool {
	_, ok := placeholderSecrets[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// NewFromConfig selects the trust path once at process start. The choice is
// never re-evaluated per call and never depends on the token itself.
//
// Selection order: OIDC issuer discovery when an issuer is configured, HS256
// shared secret when a real secret is configured, and the unsigned local
// verifier only under the explicit dev flag. The dev flag is refused when a
// real secret is present so the local path is unreachable in production.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Verifier, error) {
	if cfg.Auth.Issuer != "" {
		return NewOIDCVerifier(ctx, cfg.Auth.Issuer, cfg.Auth.ClientID)
	}
	if cfg.Auth.DevVerifier {
		if !isPlaceholderSecret(cfg.Auth.Secret) {
			return nil, fmt.Errorf("AUTH_DEV_VERIFIER is set but a real AUTH_SECRET is configured; refusing unsigned verification")
		}
		return NewLocalVerifier(), nil
	}
	if !isPlaceholderSecret(cfg.Auth.Secret) {
		return NewHMACVerifier(cfg.Auth.Secret), nil
	}
	return nil, fmt.Errorf("no usable credential verifier: AUTH_SECRET is a placeholder and AUTH_DEV_VERIFIER is not set")
}
