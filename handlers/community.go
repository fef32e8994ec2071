package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartspend/smartspend-api/middleware"
	"github.com/smartspend/smartspend-api/models"
	"github.com/smartspend/smartspend-api/services"
	"github.com/smartspend/smartspend-api/store"
)

// CommunityHandler serves the moderated tips and deals board.
type CommunityHandler struct {
	Moderation *services.ModerationService
	Auth       *services.AuthService
}

// actor loads the current user so moderation sees the stored admin flag, not
// the one captured in the session token.
func (h *CommunityHandler) actor(c *gin.Context) (*models.User, bool) {
	user, err := h.Auth.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return nil, false
	}
	if err != nil {
		respondError(c, err, "User")
		return nil, false
	}
	return user, true
}

// ============================================================================
// TIPS
// ============================================================================

func (h *CommunityHandler) CreateTip(c *gin.Context) {
	var req models.CommunityTipRequest
	if !bindJSON(c, &req) {
		return
	}
	author, ok := h.actor(c)
	if !ok {
		return
	}
	tip, err := h.Moderation.CreateTip(c.Request.Context(), author, req)
	if err != nil {
		respondError(c, err, "Tip")
		return
	}
	c.JSON(http.StatusCreated, tip)
}

func (h *CommunityHandler) ListApprovedTips(c *gin.Context) {
	tips, err := h.Moderation.ListApprovedTips(c.Request.Context())
	if err != nil {
		respondError(c, err, "Tip")
		return
	}
	c.JSON(http.StatusOK, tips)
}

func (h *CommunityHandler) ListAllTips(c *gin.Context) {
	tips, err := h.Moderation.ListAllTips(c.Request.Context())
	if err != nil {
		respondError(c, err, "Tip")
		return
	}
	c.JSON(http.StatusOK, tips)
}

func (h *CommunityHandler) ListMyTips(c *gin.Context) {
	tips, err := h.Moderation.ListUserTips(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Tip")
		return
	}
	c.JSON(http.StatusOK, tips)
}

func (h *CommunityHandler) ApproveTip(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	tip, err := h.Moderation.ApproveTip(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Tip")
		return
	}
	c.JSON(http.StatusOK, tip)
}

func (h *CommunityHandler) RejectTip(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.Moderation.RejectTip(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Tip")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommunityHandler) LikeTip(c *gin.Context) {
	tip, err := h.Moderation.LikeTip(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Tip")
		return
	}
	c.JSON(http.StatusOK, tip)
}

// ============================================================================
// DEALS
// ============================================================================

func (h *CommunityHandler) CreateDeal(c *gin.Context) {
	var req models.DealRequest
	if !bindJSON(c, &req) {
		return
	}
	author, ok := h.actor(c)
	if !ok {
		return
	}
	deal, err := h.Moderation.CreateDeal(c.Request.Context(), author, req)
	if err != nil {
		respondError(c, err, "Deal")
		return
	}
	c.JSON(http.StatusCreated, deal)
}

// ListActiveDeals is the public board: approved and not yet expired.
func (h *CommunityHandler) ListActiveDeals(c *gin.Context) {
	deals, err := h.Moderation.ListActiveDeals(c.Request.Context())
	if err != nil {
		respondError(c, err, "Deal")
		return
	}
	c.JSON(http.StatusOK, deals)
}

func (h *CommunityHandler) ListAllDeals(c *gin.Context) {
	deals, err := h.Moderation.ListAllDeals(c.Request.Context())
	if err != nil {
		respondError(c, err, "Deal")
		return
	}
	c.JSON(http.StatusOK, deals)
}

func (h *CommunityHandler) ListMyDeals(c *gin.Context) {
	deals, err := h.Moderation.ListUserDeals(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Deal")
		return
	}
	c.JSON(http.StatusOK, deals)
}

func (h *CommunityHandler) ApproveDeal(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	deal, err := h.Moderation.ApproveDeal(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Deal")
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *CommunityHandler) RejectDeal(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.Moderation.RejectDeal(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Deal")
		return
	}
	c.Status(http.StatusNoContent)
}
