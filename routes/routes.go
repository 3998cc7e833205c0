package routes

import (
	"net/http"
	"time"

	"food-ordering-api/handlers"
	"food-ordering-api/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	Sessions       middleware.SessionResolver
	LoginLimiter   *middleware.RateLimiter
	AllowedOrigins []string
	Log            *zap.Logger
}

// NewRouter builds the engine with the shared middleware stack and every
// route registered
func NewRouter(h *handlers.Handler, opts Options) *gin.Engine {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(opts.Log),
		middleware.SecurityHeaders(),
	)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", h.Health)
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Food Ordering API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"admin", "manager", "member"},
		})
	})

	SetupRoutes(r, h, opts)
	return r
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		login := []gin.HandlerFunc{h.Login}
		if opts.LoginLimiter != nil {
			login = append([]gin.HandlerFunc{opts.LoginLimiter.Middleware()}, login...)
		}
		public.POST("/auth/login", login...)
		public.POST("/auth/logout", h.Logout)

		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(opts.Sessions))
	{
		auth.GET("/auth/me", h.Me)

		// Catalog
		auth.GET("/restaurants", h.ListRestaurants)
		auth.GET("/restaurants/:id", h.GetRestaurant)
		auth.GET("/menus", h.ListMenus)

		// Orders
		auth.GET("/orders", h.ListOrders)
		auth.POST("/orders", h.PlaceOrder)
		auth.GET("/orders/summary", h.OrderSummary)
		auth.GET("/orders/:id/history", h.OrderHistory)
		auth.POST("/orders/:id/cancel", h.CancelOrder)

		// Payment methods
		auth.GET("/payment-methods", h.ListPaymentMethods)
		auth.POST("/payment-methods", h.CreatePaymentMethod)

		// Cart
		auth.GET("/cart", h.GetCart)
		auth.POST("/cart", h.AddToCart)
		auth.DELETE("/cart", h.RemoveFromCart)
		auth.POST("/cart/clear", h.ClearCart)
	}
}
