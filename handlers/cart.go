package handlers

import (
	"net/http"

	"food-ordering-api/cart"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AddToCartRequest struct {
	MenuID       string          `json:"menuId" binding:"required"`
	RestaurantID string          `json:"restaurantId" binding:"required"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

func (h *Handler) GetCart(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	items, err := h.Cart.List(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// AddToCart merges the item into the caller's cart
func (h *Handler) AddToCart(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	item, err := h.Cart.Add(c.Request.Context(), p, cart.AddInput{
		MenuID:       req.MenuID,
		RestaurantID: req.RestaurantID,
		Quantity:     req.Quantity,
		Price:        req.Price,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// RemoveFromCart deletes ?itemId= from the caller's cart
func (h *Handler) RemoveFromCart(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	itemID := c.Query("itemId")
	if itemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemId is required"})
		return
	}
	if err := h.Cart.Remove(c.Request.Context(), p, itemID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ClearCart(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.Cart.Clear(c.Request.Context(), p); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
