package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientIP_HeaderPriority(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	r.Header.Set("X-Real-IP", "5.6.7.8")
	r.Header.Set("CF-Connecting-IP", "9.9.9.9")
	require.Equal(t, "1.2.3.4", ClientIP(r))

	r.Header.Del("X-Forwarded-For")
	require.Equal(t, "5.6.7.8", ClientIP(r))

	r.Header.Del("X-Real-IP")
	require.Equal(t, "9.9.9.9", ClientIP(r))
}

func TestClientIP_SingleForwardedHop(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", " 1.2.3.4 ")
	require.Equal(t, "1.2.3.4", ClientIP(r))
}

func TestClientIP_FallsBackToRemoteAddrThenUnknown(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.10:54321"
	require.Equal(t, "192.0.2.10", ClientIP(r))

	r.RemoteAddr = ""
	require.Equal(t, UnknownOrigin, ClientIP(r))
}
