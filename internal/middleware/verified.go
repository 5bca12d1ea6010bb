package middleware

import (
	"context"  // Store lookups
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging

	"farmer_registry/internal/domain" // Domain models
)

// UserFinder loads a user by id
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// VerifiedUserMiddleware re-reads the token's user on each request and only
// lets verified accounts through
func VerifiedUserMiddleware(users UserFinder, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := users.FindByID(c.Request.Context(), userID)
		if errors.Is(err, domain.ErrNotFound) {
			// Token outlived its account
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err != nil {
			log.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Failed to load user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if !user.IsVerified {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account not verified"})
			return
		}
		c.Next()
	}
}
