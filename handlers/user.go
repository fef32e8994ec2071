package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartspend/smartspend-api/middleware"
	"github.com/smartspend/smartspend-api/models"
	"github.com/smartspend/smartspend-api/services"
)

type UserHandler struct {
	Auth *services.AuthService
}

// ============================================================================
// 2FA MANAGEMENT
// ============================================================================

func (h *UserHandler) SetupTOTP(c *gin.Context) {
	setup, err := h.Auth.SetupTOTP(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, setup)
}

func (h *UserHandler) VerifyTOTP(c *gin.Context) {
	var req models.VerifyTOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.Auth.VerifyTOTP(c.Request.Context(), middleware.GetUserID(c), req.Code)
	if errors.Is(err, services.ErrInvalidTOTP) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid 2FA code"})
		return
	}
	if err != nil {
		respondError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "2FA enabled"})
}

func (h *UserHandler) DisableTOTP(c *gin.Context) {
	var req models.DisableTOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.Auth.DisableTOTP(c.Request.Context(), middleware.GetUserID(c), req.Password, req.Code)
	if errors.Is(err, services.ErrInvalidTOTP) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid 2FA code"})
		return
	}
	if err != nil {
		respondError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "2FA disabled"})
}
