package verifier

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier validates provider-issued HS256 tokens with a shared secret.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Path() string { return "provider-hmac" }

func (v *HMACVerifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("token not valid")
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", tok.Claims)
	}
	return claimsFromMap(mc, time.Now())
}

// claimsFromMap extracts the minimal claim shape shared by both provider
// variants. Subject, issued-at and expiry are required; expiry is checked
// against now even when the underlying library already validated it.
func claimsFromMap(mc jwt.MapClaims, now time.Time) (*Claims, error) {
	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	iat, err := mc.GetIssuedAt()
	if err != nil || iat == nil {
		return nil, fmt.Errorf("token missing issued-at")
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("token missing expiry")
	}
	if !now.Before(exp.Time) {
		return nil, fmt.Errorf("token expired")
	}
	email, _ := mc["email"].(string)
	return &Claims{
		Subject:   sub,
		Email:     email,
		IssuedAt:  iat.Time,
		ExpiresAt: exp.Time,
	}, nil
}
