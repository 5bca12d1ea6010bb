package api

import (
	"context" // Cache operations
	"time"    // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging

	"farmer_registry/internal/middleware" // Auth middleware
	"farmer_registry/internal/utils"      // Cache helpers
)

// Cache key prefixes for the list endpoints
const (
	usersCachePrefix = "users:"
	farmsCachePrefix = "farms:"
)

// Deps are the collaborators shared by every handler
type Deps struct {
	Auth      AuthService        // Account lifecycle
	Directory Directory          // User and farm records
	Redis     *redis.Client      // List cache, nil disables caching
	CacheTTL  time.Duration      // List cache lifetime
	JWTSecret string             // Token signing secret
	Log       logrus.FieldLogger // Request and error logging
}

// NewRouter wires every route onto a fresh gin engine
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(d.Log), gin.Recovery())

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/register", RegisterHandler(d))                           // Registration endpoint
	authGroup.POST("/login", LoginHandler(d))                                 // Login endpoint
	authGroup.POST("/verify-otp", VerifyOtpHandler(d))                        // OTP verification endpoint
	authGroup.POST("/request-password-reset", RequestPasswordResetHandler(d)) // Reset code endpoint
	authGroup.POST("/reset-password", ResetPasswordHandler(d))                // PIN reset endpoint

	// Directory routes (JWT plus a verified account)
	protected := []gin.HandlerFunc{
		middleware.JWTAuthMiddleware(d.JWTSecret),
		middleware.VerifiedUserMiddleware(d.Directory, d.Log),
	}

	users := r.Group("/users", protected...)
	users.GET("", ListUsersHandler(d))         // Paginated farmer list
	users.GET("/:id", GetUserHandler(d))       // Single farmer with farm
	users.PATCH("/:id", UpdateUserHandler(d))  // Own profile update
	users.DELETE("/:id", DeleteUserHandler(d)) // Own account removal

	farms := r.Group("/farms", protected...)
	farms.GET("", ListFarmsHandler(d))        // Paginated farm list
	farms.GET("/:id", GetFarmHandler(d))      // Single farm with owner
	farms.PATCH("/:id", UpdateFarmHandler(d)) // Own farm update

	return r
}

// invalidateLists drops every cached list page after a write
func (d Deps) invalidateLists(ctx context.Context) {
	for _, prefix := range []string{usersCachePrefix, farmsCachePrefix} {
		if err := utils.DeleteCachePrefix(ctx, d.Redis, prefix); err != nil {
			d.Log.WithFields(logrus.Fields{"prefix": prefix, "error": err.Error()}).Warn("Failed to invalidate cache")
		}
	}
}
