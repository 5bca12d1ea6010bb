// Package store persists farmers and their farms with GORM.
package store

import (
	"context" // Request-scoped cancellation
	"errors"  // Error inspection
	"fmt"     // Error wrapping

	"gorm.io/gorm" // GORM ORM library

	"farmer_registry/internal/domain" // Domain models
)

// GormConfig is the configuration every handle passed to New must be opened
// with; unique violations are only recognised when errors are translated.
func GormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// Store is the GORM-backed identity store and farmer directory
type Store struct {
	db *gorm.DB
}

// New creates a Store over db
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindByPhone returns the user registered with phone
func (s *Store) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	rec, err := s.findUser(ctx, "phone_number = ?", phone)
	if err != nil {
		return nil, err
	}
	return toUser(rec), nil
}

// FindByEmail returns the user registered with email
func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	rec, err := s.findUser(ctx, "email = ?", email)
	if err != nil {
		return nil, err
	}
	return toUser(rec), nil
}

// FindByID returns the user with id
func (s *Store) FindByID(ctx context.Context, id string) (*domain.User, error) {
	rec, err := s.findUser(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	return toUser(rec), nil
}

// FindCredentialByPhone returns the user registered with phone and its PIN hash
func (s *Store) FindCredentialByPhone(ctx context.Context, phone string) (*domain.Credential, error) {
	rec, err := s.findUser(ctx, "phone_number = ?", phone)
	if err != nil {
		return nil, err
	}
	return &domain.Credential{User: toUser(rec), PinHash: rec.Pin}, nil
}

// CreateUserWithFarm inserts the user and its farm in one transaction
func (s *Store) CreateUserWithFarm(ctx context.Context, user *domain.User, pinHash string) (*domain.User, error) {
	rec := newUserRecord(user, pinHash)
	var details domain.FarmDetails
	if user.Farm != nil {
		details = user.Farm.FarmDetails
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err // Rollback
		}
		farm := newFarmRecord(rec.ID, details)
		if err := tx.Create(farm).Error; err != nil {
			return err // Rollback
		}
		rec.Farm = farm
		return nil // Commit
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.registrationConflict(ctx, rec)
		}
		return nil, fmt.Errorf("create user with farm: %w", err)
	}
	return toUser(rec), nil
}

// UpdateUser applies changes to the user with id and returns the result.
// When changes carry an OTP guard the write is conditional on the pending
// code, and a failed condition is reported as domain.ErrOtpChanged.
func (s *Store) UpdateUser(ctx context.Context, id string, changes domain.UserChanges) (*domain.User, error) {
	values := userColumns(changes)
	code, at, guarded := changes.RequiredOtp()
	var rec userRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		if len(values) > 0 {
			q := tx.Model(&userRecord{}).Where("id = ?", id)
			if guarded {
				// Compare and swap on the code slot
				q = q.Where("otp = ? AND otp_expiry >= ?", code, at)
			}
			res := q.Updates(values)
			if res.Error != nil {
				return res.Error
			}
			if guarded && res.RowsAffected == 0 {
				return domain.ErrOtpChanged // Someone else redeemed or replaced it
			}
		}
		return tx.Preload("Farm").Where("id = ?", id).First(&rec).Error // Reload with farm
	})
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, domain.ErrNotFound
	case errors.Is(err, domain.ErrOtpChanged):
		return nil, domain.ErrOtpChanged
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, domain.ErrEmailExists
	case err != nil:
		return nil, fmt.Errorf("update user: %w", err)
	}
	return toUser(&rec), nil
}

// DeleteUser removes the user with id together with its farm
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Farm first, then its owner
		if err := tx.Where("user_id = ?", id).Delete(&farmRecord{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&userRecord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound // Rolls back the farm delete too
		}
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete user: %w", err)
	}
	return err
}

func (s *Store) findUser(ctx context.Context, query string, arg any) (*userRecord, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).Preload("Farm").Where(query, arg).First(&rec).Error // Single row with its farm
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &rec, nil
}

// registrationConflict works out which unique field a failed insert collided on
func (s *Store) registrationConflict(ctx context.Context, rec *userRecord) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&userRecord{}).Where("phone_number = ?", rec.PhoneNumber).Count(&count).Error
	if err == nil && count == 0 && rec.Email != nil {
		return domain.ErrEmailExists
	}
	return domain.ErrPhoneExists
}

// userColumns turns changes into a column map; nil map values write NULL
func userColumns(c domain.UserChanges) map[string]any {
	values := make(map[string]any)
	p := c.Profile
	setString(values, "first_name", p.FirstName)
	setString(values, "last_name", p.LastName)
	setString(values, "age_group", p.AgeGroup)
	setString(values, "residence_county", p.ResidenceCounty)
	setNullable(values, "middle_name", p.MiddleName)
	setNullable(values, "residence_location", p.ResidenceLocation)
	setNullable(values, "email", p.Email)
	setNullable(values, "business_number", p.BusinessNumber)
	if p.Gender != nil {
		values["gender"] = string(*p.Gender)
	}
	if p.YearsOfExperience != nil {
		values["years_of_experience"] = *p.YearsOfExperience
	}
	if c.IsVerified != nil {
		values["is_verified"] = *c.IsVerified
	}
	if c.PinHash != nil {
		values["pin"] = *c.PinHash
	}
	if otp, changed := c.Otp(); changed {
		// Code, expiry and purpose are written together or cleared together.
		if otp == nil {
			values["otp"], values["otp_expiry"], values["otp_purpose"] = nil, nil, nil
		} else {
			values["otp"], values["otp_expiry"], values["otp_purpose"] = otp.Code, otp.ExpiresAt, string(otp.Purpose)
		}
	}
	return values
}

func setString(values map[string]any, column string, v *string) {
	if v != nil {
		values[column] = *v
	}
}

// setNullable writes v, storing an empty string as NULL
func setNullable(values map[string]any, column string, v *string) {
	if v == nil {
		return
	}
	if *v == "" {
		values[column] = nil
		return
	}
	values[column] = *v
}
