package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// PlaceOrder -> items is a map of menu item id to quantity. Zero quantities
// are skipped so a full menu form can be posted as is.
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	var input struct {
		TableID uint         `json:"table_id" binding:"required"`
		Items   map[uint]int `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	lines := make([]services.OrderLine, 0, len(input.Items))
	for menuItemID, qty := range input.Items {
		if qty == 0 {
			continue
		}
		lines = append(lines, services.OrderLine{MenuItemID: menuItemID, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].MenuItemID < lines[j].MenuItemID })

	session := mustSession(c)
	var staffID *uint
	if session.IsStaff() {
		staffID = &session.SubjectID
	}

	order, err := oc.Orders.PlaceOrder(c.Request.Context(), input.TableID, staffID, lines)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

// GetOpenOrders -> orders not yet completed, oldest first
func (oc *OrderController) GetOpenOrders(c *gin.Context) {
	orders, err := oc.Orders.ListOpen(c.Request.Context())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Open orders", orders)
}

// GetKitchenOrders -> pending orders for the kitchen display
func (oc *OrderController) GetKitchenOrders(c *gin.Context) {
	orders, err := oc.Orders.ListPending(c.Request.Context())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending orders", orders)
}

func (oc *OrderController) MarkReady(c *gin.Context) {
	id, err := paramID(c, "order_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	order, err := oc.Orders.MarkReady(c.Request.Context(), id)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order marked as ready", order)
}
