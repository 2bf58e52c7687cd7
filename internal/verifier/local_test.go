package verifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func unsignedToken(t *testing.T, payload map[string]interface{}) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(body) + "." + base64.RawURLEncoding.EncodeToString([]byte("sig"))
}

func TestLocalVerifier_ValidToken(t *testing.T) {
	v := NewLocalVerifier()
	raw := unsignedToken(t, map[string]interface{}{
		"sub":   "u1",
		"email": "u1@example.com",
		"iat":   time.Now().Add(-time.Minute).Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	c, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, "u1", c.Subject)
	require.Equal(t, "u1@example.com", c.Email)
}

func TestLocalVerifier_Expired(t *testing.T) {
	v := NewLocalVerifier()
	raw := unsignedToken(t, map[string]interface{}{
		"sub": "u1",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestLocalVerifier_ExpiryBoundary(t *testing.T) {
	// a token whose expiry equals "now" is already expired
	fixed := time.Unix(1_700_000_000, 0)
	v := &LocalVerifier{now: func() time.Time { return fixed }}
	raw := unsignedToken(t, map[string]interface{}{
		"sub": "u1",
		"iat": fixed.Add(-time.Hour).Unix(),
		"exp": fixed.Unix(),
	})

	_, err := v.Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestLocalVerifier_MissingRequiredClaims(t *testing.T) {
	v := NewLocalVerifier()
	cases := []map[string]interface{}{
		{"iat": time.Now().Unix(), "exp": time.Now().Add(time.Hour).Unix()},
		{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()},
		{"sub": "u1", "iat": time.Now().Unix()},
	}
	for _, payload := range cases {
		_, err := v.Verify(context.Background(), unsignedToken(t, payload))
		require.Error(t, err, "payload %v", payload)
	}
}

func TestLocalVerifier_MalformedTokens(t *testing.T) {
	v := NewLocalVerifier()
	for _, raw := range []string{"", "one", "a.b", "a.b.c.d", "!!.@@.##", "a.%%%.c"} {
		_, err := v.Verify(context.Background(), raw)
		require.Error(t, err, "input %q", raw)
	}
}
