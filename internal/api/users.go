package api

import (
	"context"  // Request contexts
	"errors"   // Error inspection
	"fmt"      // Cache keys and messages
	"net/http" // HTTP status codes
	"strconv"  // Query parsing

	"github.com/gin-gonic/gin" // Gin web framework

	"farmer_registry/internal/domain"     // Domain models
	"farmer_registry/internal/middleware" // Current user
	"farmer_registry/internal/utils"      // Cache helpers
)

// Directory is the record store behind the user and farm routes
type Directory interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, changes domain.UserChanges) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.User], error)
	ListFarms(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Farm], error)
	FindFarm(ctx context.Context, id string) (*domain.Farm, error)
	UpdateFarm(ctx context.Context, id string, changes domain.FarmChanges) (*domain.Farm, error)
}

// errNotOwner rejects writes to someone else's records
var errNotOwner = domain.NewError(domain.ErrForbidden, "you can only modify your own records")

// UpdateUserRequest is a partial profile update
type UpdateUserRequest struct {
	FirstName         *string `json:"firstName" binding:"omitempty,min=1"`
	MiddleName        *string `json:"middleName"`
	LastName          *string `json:"lastName" binding:"omitempty,min=1"`
	Gender            *string `json:"gender" binding:"omitempty,oneof=Male Female"`
	AgeGroup          *string `json:"ageGroup" binding:"omitempty,min=1"`
	ResidenceCounty   *string `json:"residenceCounty" binding:"omitempty,min=1"`
	ResidenceLocation *string `json:"residenceLocation"`
	Email             *string `json:"email" binding:"omitempty,email"`
	BusinessNumber    *string `json:"businessNumber"`
	YearsOfExperience *int    `json:"yearsOfExperience" binding:"omitempty,min=0"`
}

func (r UpdateUserRequest) changes() domain.UserChanges {
	p := domain.ProfileChanges{
		FirstName:         r.FirstName,
		MiddleName:        r.MiddleName,
		LastName:          r.LastName,
		AgeGroup:          r.AgeGroup,
		ResidenceCounty:   r.ResidenceCounty,
		ResidenceLocation: r.ResidenceLocation,
		Email:             r.Email,
		BusinessNumber:    r.BusinessNumber,
		YearsOfExperience: r.YearsOfExperience,
	}
	if r.Gender != nil {
		g := domain.Gender(*r.Gender)
		p.Gender = &g
	}
	return domain.UserChanges{Profile: p}
}

// pageQuery reads page, limit and search; bad numbers fall back to defaults
func pageQuery(c *gin.Context) domain.PageQuery {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return domain.PageQuery{Page: page, Limit: limit, Search: c.Query("search")}.Normalize()
}

func listCacheKey(prefix string, q domain.PageQuery) string {
	return fmt.Sprintf("%spage=%d:limit=%d:search=%s", prefix, q.Page, q.Limit, q.Search)
}

// ListUsersHandler returns one page of farmers, served from cache when possible
func ListUsersHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		q := pageQuery(c)
		cacheKey := listCacheKey(usersCachePrefix, q)

		var cached domain.Page[domain.User]
		if found, err := utils.GetCache(ctx, d.Redis, cacheKey, &cached); err == nil && found {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, cached)
			return
		} else if err != nil {
			d.Log.WithField("error", err.Error()).Warn("Cache read failed")
		}

		page, err := d.Directory.ListUsers(ctx, q)
		if err != nil {
			respondError(c, d.Log, err)
			return
		}
		_ = utils.SetCache(ctx, d.Redis, cacheKey, page, d.CacheTTL) // Best effort
		c.Header("X-Cache", "MISS")
		c.JSON(http.StatusOK, page)
	}
}

// GetUserHandler returns one farmer with their farm
func GetUserHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		user, err := d.Directory.FindByID(c.Request.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			err = userNotFound(id)
		}
		if err != nil {
			respondError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateUserHandler applies a partial profile update to the caller's own account
func UpdateUserHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id != middleware.CurrentUserID(c) {
			respondError(c, d.Log, errNotOwner)
			return
		}
		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}
		user, err := d.Directory.UpdateUser(c.Request.Context(), id, req.changes())
		if errors.Is(err, domain.ErrNotFound) {
			err = userNotFound(id)
		}
		if err != nil {
			respondError(c, d.Log, err)
			return
		}
		d.invalidateLists(c.Request.Context())
		c.JSON(http.StatusOK, user)
	}
}

// DeleteUserHandler removes the caller's own account and farm
func DeleteUserHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id != middleware.CurrentUserID(c) {
			respondError(c, d.Log, errNotOwner)
			return
		}
		err := d.Directory.DeleteUser(c.Request.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			err = userNotFound(id)
		}
		if err != nil {
			respondError(c, d.Log, err)
			return
		}
		d.invalidateLists(c.Request.Context())
		d.Log.WithField("user_id", id).Info("Farmer deleted")
		c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
	}
}

func userNotFound(id string) error {
	return domain.NewError(domain.ErrNotFound, fmt.Sprintf("user with ID %s not found", id))
}
