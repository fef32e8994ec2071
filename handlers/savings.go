package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartspend/smartspend-api/middleware"
	"github.com/smartspend/smartspend-api/models"
)

func (h *FinanceHandler) CreateSavingsGoal(c *gin.Context) {
	var req models.SavingsGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	goal, err := h.Finance.CreateSavingsGoal(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err, "Savings goal")
		return
	}
	c.JSON(http.StatusCreated, goal)
}

func (h *FinanceHandler) ListSavingsGoals(c *gin.Context) {
	goals, err := h.Finance.ListSavingsGoals(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Savings goal")
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (h *FinanceHandler) UpdateSavingsGoal(c *gin.Context) {
	var req models.SavingsGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	goal, err := h.Finance.UpdateSavingsGoal(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Savings goal")
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *FinanceHandler) DeleteSavingsGoal(c *gin.Context) {
	if err := h.Finance.DeleteSavingsGoal(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err, "Savings goal")
		return
	}
	c.Status(http.StatusNoContent)
}
