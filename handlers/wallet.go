package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toxicdevil0/timeout/backend/go-services/internal/ratelimit"
	"github.com/toxicdevil0/timeout/backend/go-services/internal/wallet"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/logger"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/middleware"
)

// SpendRequest debits the caller's own wallet (theme shop purchases etc).
type SpendRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// AwardRequest credits an arbitrary subject; admin only.
type AwardRequest struct {
	Sub    string `json:"sub" binding:"required"`
	Amount int64  `json:"amount" binding:"required"`
}

// WalletHandler exposes the token economy surface.
type WalletHandler struct {
	svc *wallet.Service
}

func NewWalletHandler(s *wallet.Service) *WalletHandler {
	return &WalletHandler{svc: s}
}

func (h *WalletHandler) Register(rg *gin.RouterGroup, d middleware.Deps, lim *ratelimit.Limiter) {
	g := rg.Group("/wallet")
	g.GET("", middleware.RateLimit(lim, ratelimit.ClassToken), middleware.RequireAuth(d), h.Balance)
	g.POST("/spend", middleware.RateLimit(lim, ratelimit.ClassToken), middleware.RequireAuth(d), h.Spend)
	g.POST("/award", middleware.RateLimit(lim, ratelimit.ClassToken), middleware.RequireAdmin(d), h.Award)
}

func (h *WalletHandler) Balance(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	w, err := h.svc.Balance(c.Request.Context(), id.Sub)
	if err != nil {
		logger.Errorf("wallet lookup failed for sub=%s: %v", id.Sub, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": w})
}

func (h *WalletHandler) Spend(c *gin.Context) {
	var req SpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RejectInvalidArgument(c, err.Error())
		return
	}
	id, _ := middleware.IdentityFrom(c)
	w, err := h.svc.Spend(c.Request.Context(), id.Sub, req.Amount)
	switch {
	case errors.Is(err, wallet.ErrInsufficientFunds):
		middleware.RejectInvalidArgument(c, "insufficient balance")
	case err != nil:
		middleware.RejectInvalidArgument(c, err.Error())
	default:
		c.JSON(http.StatusOK, gin.H{"wallet": w})
	}
}

func (h *WalletHandler) Award(c *gin.Context) {
	var req AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RejectInvalidArgument(c, err.Error())
		return
	}
	w, err := h.svc.Award(c.Request.Context(), req.Sub, req.Amount)
	if err != nil {
		middleware.RejectInvalidArgument(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": w})
}
