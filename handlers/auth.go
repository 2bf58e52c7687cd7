package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toxicdevil0/timeout/backend/go-services/internal/ratelimit"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/middleware"
)

// AuthHandler bootstraps a caller after provider login: the first verified
// call creates the durable user record. The route is throttled per network
// origin since it is the cheapest pre-auth abuse target.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler { return &AuthHandler{} }

func (h *AuthHandler) Register(rg *gin.RouterGroup, d middleware.Deps, lim *ratelimit.Limiter) {
	g := rg.Group("/auth")
	g.POST("/verify", middleware.RateLimit(lim, ratelimit.ClassAuth), middleware.RequireAuth(d), h.Verify)
}

func (h *AuthHandler) Verify(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	c.JSON(http.StatusOK, gin.H{"identity": id})
}
