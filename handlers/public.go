package handlers

import (
	"context"
	"net/http"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/statemachine"

	"github.com/gin-gonic/gin"
)

// Health reports service and database status
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "ok",
	})
}

// GetStateMachineInfo returns the order lifecycle for documentation
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	terminal := []models.OrderStatus{}
	for _, s := range []models.OrderStatus{models.StatusConfirmed, models.StatusCancelled} {
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"initial_state":   statemachine.InitialStatus,
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": terminal,
		"description":     "Food Ordering Order Lifecycle State Machine",
	})
}
