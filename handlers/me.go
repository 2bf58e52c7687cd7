package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toxicdevil0/timeout/backend/go-services/internal/identity"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/ratelimit"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/middleware"
)

// MeHandler serves the caller's own enriched identity and durable record.
type MeHandler struct {
	enricher *identity.Enricher
}

func NewMeHandler(e *identity.Enricher) *MeHandler {
	return &MeHandler{enricher: e}
}

func (h *MeHandler) Register(rg *gin.RouterGroup, d middleware.Deps, lim *ratelimit.Limiter) {
	rg.GET("/me", middleware.RateLimit(lim, ratelimit.ClassAPI), middleware.RequireAuth(d), h.Me)
}

func (h *MeHandler) Me(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	resp := gin.H{"identity": id}
	if u, err := h.enricher.GetBySub(c.Request.Context(), id.Sub); err == nil && u != nil {
		resp["user"] = u
	}
	c.JSON(http.StatusOK, resp)
}
