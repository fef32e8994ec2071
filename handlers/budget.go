package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartspend/smartspend-api/middleware"
	"github.com/smartspend/smartspend-api/models"
	"github.com/smartspend/smartspend-api/services"
)

type BudgetHandler struct {
	Budgets *services.BudgetService
	Summary *services.SummaryService
}

func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req models.BudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.Budgets.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err, "Budget")
		return
	}
	c.JSON(http.StatusCreated, budget)
}

func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	budgets, err := h.Budgets.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Budget")
		return
	}
	c.JSON(http.StatusOK, budgets)
}

func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	var req models.BudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.Budgets.Update(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Budget")
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	if err := h.Budgets.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err, "Budget")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetBudgetStatuses evaluates every budget for its current period window.
func (h *BudgetHandler) GetBudgetStatuses(c *gin.Context) {
	statuses, err := h.Budgets.Statuses(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Budget")
		return
	}
	c.JSON(http.StatusOK, statuses)
}

func (h *BudgetHandler) GetBudgetAlerts(c *gin.Context) {
	alerts, err := h.Budgets.Alerts(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Budget")
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *BudgetHandler) GetSummary(c *gin.Context) {
	summary, err := h.Summary.Summary(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}
