package ratelimit

import (
	"net/http"
	"strings"
)

// UnknownOrigin is used when no proxy header identifies the caller. Keying
// on a sentinel is preferred over failing the call.
const UnknownOrigin = "unknown"

// ClientIP derives the network origin from proxy headers in priority order:
// first hop of X-Forwarded-For, then X-Real-IP, then the CDN header.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if r.RemoteAddr != "" {
		host := r.RemoteAddr
		if i := strings.LastIndex(host, ":"); i > 0 {
			host = host[:i]
		}
		if host != "" {
			return host
		}
	}
	return UnknownOrigin
}
