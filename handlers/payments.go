package handlers

import (
	"net/http"

	"food-ordering-api/models"
	"food-ordering-api/payments"

	"github.com/gin-gonic/gin"
)

type CreatePaymentMethodRequest struct {
	UserID    string             `json:"userId"`
	CardLast4 string             `json:"cardLast4" binding:"required"`
	Type      models.PaymentType `json:"type" binding:"required"`
}

func (h *Handler) ListPaymentMethods(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	methods, err := h.Payments.List(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, methods)
}

// CreatePaymentMethod stores a payment method. userId defaults to the
// caller.
func (h *Handler) CreatePaymentMethod(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	method, err := h.Payments.Create(c.Request.Context(), p, payments.CreateInput{
		UserID:    req.UserID,
		CardLast4: req.CardLast4,
		Type:      req.Type,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, method)
}
