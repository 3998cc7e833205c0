package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListRestaurants returns the restaurants visible to the caller. Admins may
// narrow by ?country=.
func (h *Handler) ListRestaurants(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	restaurants, err := h.Catalog.ListRestaurants(c.Request.Context(), p, c.Query("country"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

func (h *Handler) GetRestaurant(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	restaurant, err := h.Catalog.GetRestaurant(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

// ListMenus returns menus visible to the caller, optionally for one
// restaurant via ?restaurantId=
func (h *Handler) ListMenus(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	menus, err := h.Catalog.ListMenus(c.Request.Context(), p, c.Query("restaurantId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menus)
}
