// handlers/admin.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartspend/smartspend-api/services"
)

// AdminHandler backs the admin panel. Routes are guarded by RequireAdmin.
type AdminHandler struct {
	Auth    *services.AuthService
	Summary *services.SummaryService
}

// ListUsers never exposes password hashes or TOTP secrets (json:"-").
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Auth.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.Summary.AdminAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, err, "Analytics")
		return
	}
	c.JSON(http.StatusOK, analytics)
}
