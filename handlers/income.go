package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartspend/smartspend-api/middleware"
	"github.com/smartspend/smartspend-api/models"
	"github.com/smartspend/smartspend-api/services"
)

// FinanceHandler serves incomes, expenses and savings goals of the current user.
type FinanceHandler struct {
	Finance *services.FinanceService
}

func (h *FinanceHandler) CreateIncome(c *gin.Context) {
	var req models.IncomeRequest
	if !bindJSON(c, &req) {
		return
	}
	income, err := h.Finance.CreateIncome(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		respondError(c, err, "Income")
		return
	}
	c.JSON(http.StatusCreated, income)
}

func (h *FinanceHandler) ListIncomes(c *gin.Context) {
	incomes, err := h.Finance.ListIncomes(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err, "Income")
		return
	}
	c.JSON(http.StatusOK, incomes)
}

func (h *FinanceHandler) UpdateIncome(c *gin.Context) {
	var req models.IncomeRequest
	if !bindJSON(c, &req) {
		return
	}
	income, err := h.Finance.UpdateIncome(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Income")
		return
	}
	c.JSON(http.StatusOK, income)
}

func (h *FinanceHandler) DeleteIncome(c *gin.Context) {
	if err := h.Finance.DeleteIncome(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err, "Income")
		return
	}
	c.Status(http.StatusNoContent)
}
