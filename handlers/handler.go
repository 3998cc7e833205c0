// Package handlers exposes the ordering operations over HTTP. Handlers only
// bind requests and shape responses; every rule lives in the engines.
package handlers

import (
	"net/http"

	"food-ordering-api/apperr"
	"food-ordering-api/auth"
	"food-ordering-api/cart"
	"food-ordering-api/catalog"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/orders"
	"food-ordering-api/payments"
	"food-ordering-api/session"
	"food-ordering-api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Deps struct {
	Store    *store.Store
	Verifier auth.Verifier
	Sessions *session.Manager
	Catalog  *catalog.Service
	Cart     *cart.Engine
	Orders   *orders.Engine
	Payments *payments.Service
	Log      *zap.Logger
	// SecureCookies marks the auth cookie Secure; enable behind TLS
	SecureCookies bool
}

type Handler struct {
	Deps
}

func New(d Deps) *Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Handler{Deps: d}
}

// respondError writes err as {"error": message} with the status of its kind
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		h.Log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// principal returns the authenticated caller. Routes without AuthRequired
// get a 401.
func (h *Handler) principal(c *gin.Context) (models.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return p, ok
}
