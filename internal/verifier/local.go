package verifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// LocalVerifier decodes a token's payload without checking its signature.
// It exists so local development works without live provider credentials
// and is only constructed under an explicit opt-in (see NewFromConfig).
type LocalVerifier struct {
	now func() time.Time
}

func NewLocalVerifier() *LocalVerifier {
	return &LocalVerifier{now: time.Now}
}

func (v *LocalVerifier) Path() string { return "local" }

func (v *LocalVerifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, errors.New("invalid token format")
	}
	for _, p := range parts {
		if _, err := decodeSegment(p); err != nil {
			return nil, errors.New("invalid token segment")
		}
	}
	data, _ := decodeSegment(parts[1])

	var payload struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Iat   int64  `json:"iat"`
		Exp   int64  `json:"exp"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	if payload.Sub == "" || payload.Iat == 0 || payload.Exp == 0 {
		return nil, errors.New("token missing required claims")
	}
	exp := time.Unix(payload.Exp, 0)
	if !v.now().Before(exp) {
		return nil, errors.New("token expired")
	}
	return &Claims{
		Subject:   payload.Sub,
		Email:     payload.Email,
		IssuedAt:  time.Unix(payload.Iat, 0),
		ExpiresAt: exp,
	}, nil
}

// decodeSegment accepts both padded and unpadded base64url segments.
func decodeSegment(seg string) ([]byte, error) {
	if m := len(seg) % 4; m != 0 {
		seg += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(seg)
}
