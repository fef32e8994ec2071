package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartspend/smartspend-api/models"
	"github.com/smartspend/smartspend-api/services"
)

// CategorizeLabel suggests an expense category for a merchant or description.
func (h *FinanceHandler) CategorizeLabel(c *gin.Context) {
	var req models.CategorizeRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": services.Categorize(req.Label)})
}

func (h *FinanceHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, services.ExpenseCategories)
}
