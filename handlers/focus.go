package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toxicdevil0/timeout/backend/go-services/internal/focus"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/ratelimit"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/logger"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/middleware"
)

// FocusHandler exposes focus session start/stop/status.
type FocusHandler struct {
	svc *focus.Service
}

func NewFocusHandler(s *focus.Service) *FocusHandler {
	return &FocusHandler{svc: s}
}

func (h *FocusHandler) Register(rg *gin.RouterGroup, d middleware.Deps, lim *ratelimit.Limiter) {
	g := rg.Group("/focus", middleware.RateLimit(lim, ratelimit.ClassAPI), middleware.RequireAuth(d))
	g.POST("/start", h.Start)
	g.POST("/stop", h.Stop)
	g.GET("/active", h.Active)
}

func (h *FocusHandler) Start(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	sess, err := h.svc.Start(c.Request.Context(), id.Sub)
	switch {
	case errors.Is(err, focus.ErrAlreadyActive):
		c.JSON(http.StatusConflict, gin.H{"error": "focus session already active"})
	case err != nil:
		logger.Errorf("focus start failed for sub=%s: %v", id.Sub, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "focus start failed"})
	default:
		c.JSON(http.StatusCreated, gin.H{"session": sess})
	}
}

func (h *FocusHandler) Stop(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	elapsed, award, err := h.svc.Stop(c.Request.Context(), id.Sub)
	switch {
	case errors.Is(err, focus.ErrNotActive):
		c.JSON(http.StatusNotFound, gin.H{"error": "no active focus session"})
	case err != nil:
		logger.Errorf("focus stop failed for sub=%s: %v", id.Sub, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "focus stop failed"})
	default:
		c.JSON(http.StatusOK, gin.H{"focusedSeconds": int64(elapsed.Seconds()), "tokensAwarded": award})
	}
}

func (h *FocusHandler) Active(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	sess, err := h.svc.Active(c.Request.Context(), id.Sub)
	if err != nil {
		logger.Errorf("focus status failed for sub=%s: %v", id.Sub, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "focus status failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}
