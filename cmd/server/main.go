package main

import (
	"context"   // context package is needed for Redis operations
	"errors"    // Server shutdown inspection
	"net/http"  // HTTP server
	"os"        // Process signals
	"os/signal" // Graceful shutdown
	"syscall"   // SIGTERM
	"time"      // Shutdown timeout

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client

	"farmer_registry/internal/api"           // Custom package for API handlers
	"farmer_registry/internal/auth"          // Account lifecycle
	"farmer_registry/internal/config"        // Custom package for configuration
	"farmer_registry/internal/db"            // Database connection
	"farmer_registry/internal/domain"        // Clock
	"farmer_registry/internal/notifications" // SMS gateways
	"farmer_registry/internal/store"         // Persistence
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	log := config.NewLogger(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Connect to the database
	gdb, err := db.Open(cfg, log)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	// Setup Redis client; an empty address disables list caching
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		log.Warn("REDIS_ADDR not set, list caching disabled")
	}

	gateway, err := notifications.NewGateway(cfg.SMS, cfg.IsProd, log)
	if err != nil {
		log.Fatalf("failed to set up SMS gateway: %v", err)
	}

	clock := domain.RealClock{}
	st := store.New(gdb)
	svc, err := auth.NewService(
		st,
		auth.NewBcryptHasher(cfg.BcryptCost),
		auth.NewCodeGenerator(clock),
		gateway,
		auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL),
		clock,
		log,
	)
	if err != nil {
		log.Fatalf("failed to set up auth service: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.Deps{
		Auth:      svc,
		Directory: st,
		Redis:     redisClient,
		CacheTTL:  cfg.CacheTTL,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		log.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
	}
}
