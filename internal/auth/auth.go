// Package auth implements farmer account registration, login gated by phone
// verification, OTP verification and PIN reset.
package auth

import (
	"context"
	"time"

	"farmer_registry/internal/domain"
)

// Store is the identity store the service reads and writes. Lookups return
// domain.ErrNotFound when no record matches.
type Store interface {
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindCredentialByPhone(ctx context.Context, phone string) (*domain.Credential, error)
	// CreateUserWithFarm persists user, its farm and pinHash atomically.
	// Unique violations surface as domain.ErrPhoneExists or domain.ErrEmailExists.
	CreateUserWithFarm(ctx context.Context, user *domain.User, pinHash string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, changes domain.UserChanges) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Hasher is a one-way salted hash for PINs
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hashed string) bool
}

// OtpGenerator issues a fresh code and its absolute expiry
type OtpGenerator interface {
	Generate() (code string, expiresAt time.Time, err error)
}

// Notifier delivers SMS messages
type Notifier interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// TokenIssuer signs session tokens bound to a user id
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Result is what every operation hands back to its caller
type Result struct {
	User    *domain.User `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
	Message string       `json:"message,omitempty"`
}
