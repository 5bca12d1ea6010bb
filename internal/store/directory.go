package store

import (
	"context" // Request-scoped cancellation
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // Search term folding

	"golang.org/x/sync/errgroup" // Concurrent count and page queries
	"gorm.io/gorm"               // GORM ORM library

	"farmer_registry/internal/domain" // Domain models
)

// ListUsers returns one page of users, newest first, with their farms
func (s *Store) ListUsers(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.User], error) {
	q = q.Normalize()
	match := searchScope(q.Search, []string{"first_name", "last_name", "email"}, []string{"phone_number"})

	var total int64                      // Rows matching the search
	var recs []userRecord                // Rows on this page
	g, gctx := errgroup.WithContext(ctx) // Count and page run side by side
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&userRecord{}).Scopes(match).Count(&total).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Scopes(match).Preload("Farm").
			Order("created_at desc").Order("id").
			Offset(q.Offset()).Limit(q.Limit).
			Find(&recs).Error
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]domain.User, len(recs))
	for i := range recs {
		users[i] = *toUser(&recs[i])
	}
	return &domain.Page[domain.User]{Data: users, Meta: domain.NewPageMeta(q, total)}, nil
}

// ListFarms returns one page of farms, newest first, with owner summaries
func (s *Store) ListFarms(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Farm], error) {
	q = q.Normalize()
	match := searchScope(q.Search, []string{"name", "county", "administrative_location"}, nil)

	var total int64                      // Rows matching the search
	var recs []farmRecord                // Rows on this page
	g, gctx := errgroup.WithContext(ctx) // Count and page run side by side
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&farmRecord{}).Scopes(match).Count(&total).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Scopes(match).Preload("User", ownerColumns).
			Order("created_at desc").Order("id").
			Offset(q.Offset()).Limit(q.Limit).
			Find(&recs).Error
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list farms: %w", err)
	}

	farms := make([]domain.Farm, len(recs))
	for i := range recs {
		farms[i] = *toFarm(&recs[i])
	}
	return &domain.Page[domain.Farm]{Data: farms, Meta: domain.NewPageMeta(q, total)}, nil
}

// FindFarm returns the farm with id and its owner summary
func (s *Store) FindFarm(ctx context.Context, id string) (*domain.Farm, error) {
	var rec farmRecord
	err := s.db.WithContext(ctx).Preload("User", ownerColumns).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find farm: %w", err)
	}
	return toFarm(&rec), nil
}

// UpdateFarm applies changes to the farm with id and returns the result
func (s *Store) UpdateFarm(ctx context.Context, id string, changes domain.FarmChanges) (*domain.Farm, error) {
	upd, columns := farmColumns(changes)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&farmRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		if len(columns) == 0 {
			return nil // Nothing to change
		}
		// Struct updates run the JSON serializer on farming types.
		return tx.Model(&farmRecord{}).Where("id = ?", id).Select(columns).Updates(upd).Error
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update farm: %w", err)
	}
	return s.FindFarm(ctx, id)
}

func farmColumns(c domain.FarmChanges) (*farmRecord, []string) {
	upd := &farmRecord{}
	var columns []string
	if c.Name != nil {
		upd.Name = *c.Name
		columns = append(columns, "name")
	}
	if c.County != nil {
		upd.County = *c.County
		columns = append(columns, "county")
	}
	if c.AdministrativeLocation != nil {
		upd.AdministrativeLocation = *c.AdministrativeLocation
		columns = append(columns, "administrative_location")
	}
	if c.Size != nil {
		upd.Size = *c.Size
		columns = append(columns, "size")
	}
	if c.Ownership != nil {
		upd.Ownership = string(*c.Ownership)
		columns = append(columns, "ownership")
	}
	if c.FarmingTypes != nil {
		upd.FarmingTypes = append([]string(nil), c.FarmingTypes...)
		columns = append(columns, "farming_types")
	}
	return upd, columns
}

// ownerColumns limits a preloaded owner to its public summary
func ownerColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "first_name", "last_name", "phone_number", "email")
}

// searchScope matches term case-insensitively against folded columns and
// verbatim against exact columns
func searchScope(term string, folded, exact []string) func(*gorm.DB) *gorm.DB {
	term = strings.TrimSpace(term)
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		var clauses []string
		var args []any
		lower := "%" + strings.ToLower(term) + "%"
		for _, col := range folded {
			clauses = append(clauses, "LOWER("+col+") LIKE ?")
			args = append(args, lower)
		}
		for _, col := range exact {
			clauses = append(clauses, col+" LIKE ?")
			args = append(args, "%"+term+"%")
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}
