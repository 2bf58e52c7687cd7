package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toxicdevil0/timeout/backend/go-services/internal/identity"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/ratelimit"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/rooms"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/logger"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/middleware"
)

// CreateRoomRequest is the payload for opening a study room.
type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required"`
	Topic    string `json:"topic"`
	Capacity int    `json:"capacity"`
}

// RoomsHandler exposes the study room surface.
type RoomsHandler struct {
	svc *rooms.Service
}

func NewRoomsHandler(s *rooms.Service) *RoomsHandler {
	return &RoomsHandler{svc: s}
}

// Register routes under /rooms. Creation is a teacher action; joining only
// needs an authenticated caller.
func (h *RoomsHandler) Register(rg *gin.RouterGroup, d middleware.Deps, lim *ratelimit.Limiter) {
	g := rg.Group("/rooms")
	g.GET("", middleware.RateLimit(lim, ratelimit.ClassAPI), middleware.OptionalAuth(d), h.List)
	g.POST("", middleware.RateLimit(lim, ratelimit.ClassRoom), middleware.RequireRole(d, identity.RoleTeacher), h.Create)
	g.POST("/:id/join", middleware.RateLimit(lim, ratelimit.ClassRoom), middleware.RequireAuth(d), h.Join)
}

func (h *RoomsHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		logger.Errorf("room list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "room list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": list})
}

func (h *RoomsHandler) Create(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RejectInvalidArgument(c, err.Error())
		return
	}
	id, _ := middleware.IdentityFrom(c)
	room, err := h.svc.Create(c.Request.Context(), id.Sub, req.Name, req.Topic, req.Capacity)
	if err != nil {
		middleware.RejectInvalidArgument(c, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"room": room})
}

func (h *RoomsHandler) Join(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	room, err := h.svc.Join(c.Request.Context(), c.Param("id"), id.Sub)
	switch {
	case errors.Is(err, rooms.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	case errors.Is(err, rooms.ErrFull):
		c.JSON(http.StatusConflict, gin.H{"error": "room is full"})
	case err != nil:
		logger.Errorf("room join failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "room join failed"})
	default:
		c.JSON(http.StatusOK, gin.H{"room": room})
	}
}
