package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartspend/smartspend-api/middleware"
	"github.com/smartspend/smartspend-api/models"
)

func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req models.ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	expense, err := h.Finance.CreateExpense(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err, "Expense")
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	expenses, err := h.Finance.ListExpenses(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Expense")
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *FinanceHandler) UpdateExpense(c *gin.Context) {
	var req models.ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	expense, err := h.Finance.UpdateExpense(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Expense")
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (h *FinanceHandler) DeleteExpense(c *gin.Context) {
	if err := h.Finance.DeleteExpense(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err, "Expense")
		return
	}
	c.Status(http.StatusNoContent)
}
