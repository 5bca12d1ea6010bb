package api

import (
	"errors"   // Error inspection
	"fmt"      // Messages
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"farmer_registry/internal/domain"     // Domain models
	"farmer_registry/internal/middleware" // Current user
	"farmer_registry/internal/utils"      // Cache helpers
)

// UpdateFarmRequest is a partial farm update
type UpdateFarmRequest struct {
	Name                   *string  `json:"name" binding:"omitempty,min=1"`
	County                 *string  `json:"county" binding:"omitempty,min=1"`
	AdministrativeLocation *string  `json:"administrativeLocation" binding:"omitempty,min=1"`
	Size                   *float64 `json:"size" binding:"omitempty,gt=0"`
	Ownership              *string  `json:"ownership" binding:"omitempty,oneof=Freehold Leasehold Communal"`
	FarmingTypes           []string `json:"farmingTypes" binding:"omitempty,min=1,dive,required"`
}

func (r UpdateFarmRequest) changes() domain.FarmChanges {
	ch := domain.FarmChanges{
		Name:                   r.Name,
		County:                 r.County,
		AdministrativeLocation: r.AdministrativeLocation,
		Size:                   r.Size,
		FarmingTypes:           r.FarmingTypes,
	}
	if r.Ownership != nil {
		o := domain.Ownership(*r.Ownership)
		ch.Ownership = &o
	}
	return ch
}

// ListFarmsHandler returns one page of farms with owner summaries
func ListFarmsHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		q := pageQuery(c)
		cacheKey := listCacheKey(farmsCachePrefix, q)

		var cached domain.Page[domain.Farm]
		if found, err := utils.GetCache(ctx, d.Redis, cacheKey, &cached); err == nil && found {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, cached)
			return
		} else if err != nil {
			d.Log.WithField("error", err.Error()).Warn("Cache read failed")
		}

		page, err := d.Directory.ListFarms(ctx, q)
		if err != nil {
			respondError(c, d.Log, err)
			return
		}
		_ = utils.SetCache(ctx, d.Redis, cacheKey, page, d.CacheTTL) // Best effort
		c.Header("X-Cache", "MISS")
		c.JSON(http.StatusOK, page)
	}
}

// GetFarmHandler returns one farm with its owner summary
func GetFarmHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		farm, err := d.Directory.FindFarm(c.Request.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			err = farmNotFound(id)
		}
		if err != nil {
			respondError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, farm)
	}
}

// UpdateFarmHandler applies a partial update to the caller's own farm
func UpdateFarmHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")

		farm, err := d.Directory.FindFarm(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			err = farmNotFound(id)
		}
		if err != nil {
			respondError(c, d.Log, err)
			return
		}
		if farm.UserID != middleware.CurrentUserID(c) {
			respondError(c, d.Log, errNotOwner)
			return
		}

		var req UpdateFarmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}
		if req.FarmingTypes != nil && len(req.FarmingTypes) == 0 {
			respondError(c, d.Log, domain.NewError(domain.ErrBadRequest, "farmingTypes must not be empty"))
			return
		}

		updated, err := d.Directory.UpdateFarm(ctx, id, req.changes())
		if errors.Is(err, domain.ErrNotFound) {
			err = farmNotFound(id)
		}
		if err != nil {
			respondError(c, d.Log, err)
			return
		}
		d.invalidateLists(ctx)
		c.JSON(http.StatusOK, updated)
	}
}

func farmNotFound(id string) error {
	return domain.NewError(domain.ErrNotFound, fmt.Sprintf("farm with ID %s not found", id))
}
