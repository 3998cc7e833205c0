package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-ordering-api/auth"
	"food-ordering-api/cart"
	"food-ordering-api/catalog"
	"food-ordering-api/config"
	"food-ordering-api/events"
	"food-ordering-api/handlers"
	"food-ordering-api/logger"
	"food-ordering-api/middleware"
	"food-ordering-api/orders"
	"food-ordering-api/payments"
	"food-ordering-api/routes"
	"food-ordering-api/seed"
	"food-ordering-api/session"
	"food-ordering-api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	seedFlag := flag.Bool("seed", false, "load the demo dataset and exit")
	flag.Parse()

	cfg := config.Load()

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Set Gin mode
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := config.OpenDB(cfg, zl)
	if err != nil {
		zl.Fatal("Failed to open database", zap.Error(err))
	}
	st := store.New(db)

	if *seedFlag || cfg.SeedOnStart {
		runSeed(st, zl)
		if *seedFlag {
			return
		}
	}

	sessions := session.NewManager(newSessionStore(cfg, zl), cfg.JWTSecret, cfg.SessionTTL)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		zl.Info("Publishing order events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	defer func() { _ = publisher.Close() }()

	h := handlers.New(handlers.Deps{
		Store:         st,
		Verifier:      auth.NewBcryptVerifier(st),
		Sessions:      sessions,
		Catalog:       catalog.NewService(st),
		Cart:          cart.NewEngine(st, zl),
		Orders:        orders.NewEngine(st, publisher, zl),
		Payments:      payments.NewService(st, zl),
		Log:           zl,
		SecureCookies: cfg.Env == "production",
	})

	loginLimiter := middleware.PerMinute(cfg.LoginRatePerMinute)
	defer loginLimiter.Stop()

	r := routes.NewRouter(h, routes.Options{
		Sessions:       sessions,
		LoginLimiter:   loginLimiter,
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            zl,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("Server running", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	zl.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("Shutdown error", zap.Error(err))
	}
}

func newSessionStore(cfg config.Config, zl *zap.Logger) session.Store {
	if cfg.RedisURL == "" {
		zl.Info("Using in-memory session store")
		return session.NewMemoryStore(time.Now)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := session.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		zl.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	zl.Info("Using Redis session store")
	return session.NewRedisStore(client, time.Now)
}

func runSeed(st *store.Store, zl *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	data, err := seed.Run(ctx, st, bcrypt.DefaultCost)
	switch {
	case errors.Is(err, seed.ErrAlreadySeeded):
		zl.Info("Database already seeded, skipping")
	case err != nil:
		zl.Fatal("Seeding failed", zap.Error(err))
	default:
		zl.Info("Database seeded",
			zap.Int("users", len(data.Users)),
			zap.Int("restaurants", len(data.Restaurants)),
			zap.Int("menus", len(data.Menus)),
		)
	}
}
