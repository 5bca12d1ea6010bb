// Package authtest provides in-memory doubles for the auth service's collaborators.
package authtest

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"farmer_registry/internal/domain"
)

type record struct {
	user    domain.User
	farm    domain.Farm
	pinHash string
}

// Store is an in-memory identity store enforcing phone and email uniqueness
type Store struct {
	mu      sync.Mutex
	records map[string]*record
	clock   domain.Clock

	// UpdateFunc, when set, runs before UpdateUser takes the lock and may fail it
	UpdateFunc func(ctx context.Context, id string, changes domain.UserChanges) error
	// DeleteFunc, when set, runs before DeleteUser and may fail it
	DeleteFunc func(ctx context.Context, id string) error
}

// NewStore creates an empty Store stamping times from clock
func NewStore(clock domain.Clock) *Store {
	return &Store{records: make(map[string]*record), clock: clock}
}

// FindByPhone returns the user registered with phone
func (s *Store) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.byPhone(phone)
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r.view(), nil
}

// FindByEmail returns the user registered with email
func (s *Store) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.byEmail(email)
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r.view(), nil
}

// FindByID returns the user with id
func (s *Store) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.view(), nil
}

// FindCredentialByPhone returns the user and PIN hash for phone
func (s *Store) FindCredentialByPhone(_ context.Context, phone string) (*domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.byPhone(phone)
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return &domain.Credential{User: r.view(), PinHash: r.pinHash}, nil
}

// CreateUserWithFarm stores user and farm together
func (s *Store) CreateUserWithFarm(_ context.Context, user *domain.User, pinHash string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byPhone(user.PhoneNumber) != nil {
		return nil, domain.ErrPhoneExists
	}
	if user.Email != nil && s.byEmail(*user.Email) != nil {
		return nil, domain.ErrEmailExists
	}

	now := s.clock.Now()
	r := &record{user: *user, pinHash: pinHash}
	r.user.ID = uuid.NewString()
	r.user.CreatedAt, r.user.UpdatedAt = now, now
	r.user.Farm = nil
	if user.PendingOtp != nil {
		p := *user.PendingOtp
		r.user.PendingOtp = &p
	}
	if user.Farm != nil {
		r.farm = *user.Farm
		r.farm.FarmingTypes = append([]string(nil), user.Farm.FarmingTypes...)
	}
	r.farm.ID = uuid.NewString()
	r.farm.UserID = r.user.ID
	r.farm.CreatedAt, r.farm.UpdatedAt = now, now

	s.records[r.user.ID] = r
	return r.view(), nil
}

// UpdateUser applies changes to the user with id, honouring an OTP guard
func (s *Store) UpdateUser(ctx context.Context, id string, changes domain.UserChanges) (*domain.User, error) {
	if s.UpdateFunc != nil {
		if err := s.UpdateFunc(ctx, id, changes); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if code, at, guarded := changes.RequiredOtp(); guarded {
		p := r.user.PendingOtp
		if p == nil || p.Code != code || p.Expired(at) {
			return nil, domain.ErrOtpChanged
		}
	}
	if e := changes.Profile.Email; e != nil {
		if other := s.byEmail(*e); other != nil && other != r {
			return nil, domain.ErrEmailExists
		}
	}

	applyProfile(&r.user.Profile, changes.Profile)
	if changes.IsVerified != nil {
		r.user.IsVerified = *changes.IsVerified
	}
	if changes.PinHash != nil {
		r.pinHash = *changes.PinHash
	}
	if otp, changed := changes.Otp(); changed {
		r.user.PendingOtp = nil
		if otp != nil {
			p := *otp
			r.user.PendingOtp = &p
		}
	}
	r.user.UpdatedAt = s.clock.Now()
	return r.view(), nil
}

// DeleteUser removes the user with id and its farm
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if s.DeleteFunc != nil {
		if err := s.DeleteFunc(ctx, id); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// PinHash returns the stored hash for id, for assertions
func (s *Store) PinHash(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.records[id]; ok {
		return r.pinHash
	}
	return ""
}

// Users returns every stored user, oldest first
func (s *Store) Users() []*domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]*domain.User, 0, len(s.records))
	for _, r := range s.records {
		users = append(users, r.view())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users
}

// Count returns the number of stored users
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Store) byPhone(phone string) *record {
	for _, r := range s.records {
		if r.user.PhoneNumber == phone {
			return r
		}
	}
	return nil
}

func (s *Store) byEmail(email string) *record {
	for _, r := range s.records {
		if r.user.Email != nil && *r.user.Email == email {
			return r
		}
	}
	return nil
}

// view copies the record so callers cannot mutate stored state
func (r *record) view() *domain.User {
	u := r.user
	if r.user.PendingOtp != nil {
		p := *r.user.PendingOtp
		u.PendingOtp = &p
	}
	f := r.farm
	f.FarmingTypes = append([]string(nil), r.farm.FarmingTypes...)
	u.Farm = &f
	return &u
}

func applyProfile(p *domain.Profile, c domain.ProfileChanges) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.FirstName, c.FirstName)
	set(&p.LastName, c.LastName)
	set(&p.AgeGroup, c.AgeGroup)
	set(&p.ResidenceCounty, c.ResidenceCounty)
	if c.MiddleName != nil {
		p.MiddleName = c.MiddleName
	}
	if c.Gender != nil {
		p.Gender = *c.Gender
	}
	if c.ResidenceLocation != nil {
		p.ResidenceLocation = c.ResidenceLocation
	}
	if c.Email != nil {
		p.Email = c.Email
	}
	if c.BusinessNumber != nil {
		p.BusinessNumber = c.BusinessNumber
	}
	if c.YearsOfExperience != nil {
		p.YearsOfExperience = c.YearsOfExperience
	}
}
