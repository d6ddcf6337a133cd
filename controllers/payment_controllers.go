package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{Payments: payments}
}

// GetOccupiedTables -> occupied tables with the bill of their current order
func (pc *PaymentController) GetOccupiedTables(c *gin.Context) {
	bills, err := pc.Payments.OccupiedTableBills(c.Request.Context())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Occupied tables", bills)
}

func (pc *PaymentController) GetBill(c *gin.Context) {
	id, err := paramID(c, "order_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	bill, err := pc.Payments.GetBill(c.Request.Context(), id)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill", bill)
}

func (pc *PaymentController) ProcessPayment(c *gin.Context) {
	id, err := paramID(c, "order_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	var input struct {
		Method string `json:"payment_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := pc.Payments.ProcessPayment(c.Request.Context(), id, input.Method)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment processed successfully", order)
}
