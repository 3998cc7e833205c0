package handlers

import (
	"net/http"

	"food-ordering-api/orders"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	MenuID   string          `json:"menuId" binding:"required"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type PlaceOrderRequest struct {
	RestaurantID string             `json:"restaurantId" binding:"required"`
	Items        []OrderItemRequest `json:"items" binding:"dive"`
	TotalAmount  decimal.Decimal    `json:"totalAmount"`
}

// ListOrders returns the orders the caller may see, newest first
func (h *Handler) ListOrders(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	list, err := h.Orders.List(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// PlaceOrder creates an order with its items in one transaction
func (h *Handler) PlaceOrder(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	in := orders.CreateInput{RestaurantID: req.RestaurantID, TotalAmount: req.TotalAmount}
	for _, item := range req.Items {
		in.Items = append(in.Items, orders.ItemInput{MenuID: item.MenuID, Quantity: item.Quantity, Price: item.Price})
	}
	order, err := h.Orders.Create(c.Request.Context(), p, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	order, err := h.Orders.Cancel(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// OrderHistory returns the status changes of one order
func (h *Handler) OrderHistory(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	history, err := h.Orders.History(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// OrderSummary aggregates the visible orders by status
func (h *Handler) OrderSummary(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	summary, err := h.Orders.Summary(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
