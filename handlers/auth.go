package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartspend/smartspend-api/middleware"
	"github.com/smartspend/smartspend-api/models"
	"github.com/smartspend/smartspend-api/services"
	"github.com/smartspend/smartspend-api/store"
	"github.com/smartspend/smartspend-api/utils"
)

// SessionConfig controls how session cookies are issued.
type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieSecure bool
}

type AuthHandler struct {
	Auth    *services.AuthService
	Session SessionConfig
}

func NewAuthHandler(auth *services.AuthService, session SessionConfig) *AuthHandler {
	return &AuthHandler{Auth: auth, Session: session}
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) bool {
	tok, err := utils.GenerateSessionToken(h.Session.Secret, user.ID, user.IsAdmin, h.Session.TTL)
	if err != nil {
		respondError(c, err, "Session")
		return false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, tok, int(h.Session.TTL.Seconds()), "/", "", h.Session.CookieSecure, true)
	return true
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "User")
		return
	}
	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.Auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "User")
		return
	}
	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.Session.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// CurrentUser answers 401 when the session points at a user that no longer
// exists.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, err := h.Auth.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}
	if err != nil {
		respondError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, user)
}
