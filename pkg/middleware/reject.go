package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/toxicdevil0/timeout/backend/go-services/pkg/metrics"
)

// Machine-readable rejection reasons surfaced to callers. This is a closed
// set; the human-readable message is intentionally generic.
const (
	ReasonUnauthenticated   = "unauthenticated"
	ReasonPermissionDenied  = "permission-denied"
	ReasonResourceExhausted = "resource-exhausted"
	ReasonInvalidArgument   = "invalid-argument"
)

func reject(c *gin.Context, status int, reason, msg string) {
	metrics.AuthRejected.WithLabelValues(reason).Inc()
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "reason": reason})
}

// RejectUnauthenticated rejects with the single generic message used for
// every trust failure, so callers cannot distinguish expired from forged.
func RejectUnauthenticated(c *gin.Context) {
	reject(c, http.StatusUnauthorized, ReasonUnauthenticated, "authentication required")
}

func RejectPermissionDenied(c *gin.Context) {
	reject(c, http.StatusForbidden, ReasonPermissionDenied, "permission denied")
}

// RejectResourceExhausted carries the window reset instant so a well-behaved
// caller can back off precisely.
func RejectResourceExhausted(c *gin.Context, resetAt time.Time) {
	retry := int(time.Until(resetAt).Seconds())
	if retry < 1 {
		retry = 1
	}
	c.Header("Retry-After", strconv.Itoa(retry))
	metrics.AuthRejected.WithLabelValues(ReasonResourceExhausted).Inc()
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":   "rate limit exceeded",
		"reason":  ReasonResourceExhausted,
		"resetAt": resetAt.UTC().Format(time.RFC3339),
	})
}

// RejectInvalidArgument is used by handlers for malformed payloads, upstream
// of the auth middleware's concerns.
func RejectInvalidArgument(c *gin.Context, msg string) {
	reject(c, http.StatusBadRequest, ReasonInvalidArgument, msg)
}
