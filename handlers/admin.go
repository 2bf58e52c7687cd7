package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/toxicdevil0/timeout/backend/go-services/internal/identity"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/ratelimit"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/logger"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/middleware"
)

// SetRoleRequest assigns a role from the closed set to a subject.
type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AdminHandler is the role management surface. It is the only writer of the
// role field; the enrichment path never elevates anyone.
type AdminHandler struct {
	enricher *identity.Enricher
}

func NewAdminHandler(e *identity.Enricher) *AdminHandler {
	return &AdminHandler{enricher: e}
}

func (h *AdminHandler) Register(rg *gin.RouterGroup, d middleware.Deps, lim *ratelimit.Limiter) {
	g := rg.Group("/admin", middleware.RateLimit(lim, ratelimit.ClassAPI), middleware.RequireAdmin(d))
	g.GET("/users", h.ListUsers)
	g.PUT("/users/:sub/role", h.SetRole)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.enricher.List(c.Request.Context(), 100)
	if err != nil {
		logger.Errorf("user list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RejectInvalidArgument(c, err.Error())
		return
	}
	role := identity.ParseRole(req.Role)
	if string(role) != req.Role {
		middleware.RejectInvalidArgument(c, "unknown role")
		return
	}
	sub := c.Param("sub")
	if err := h.enricher.SetRole(c.Request.Context(), sub, role); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.Errorf("role update failed for sub=%s: %v", sub, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "role update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sub": sub, "role": role})
}
