package auth

import (
	"context" // Request-scoped cancellation
	"errors"  // Error inspection
	"fmt"     // Error wrapping and messages
	"strings" // Input trimming

	"github.com/sirupsen/logrus" // Structured logging

	"farmer_registry/internal/domain" // Domain models
)

// Success messages
const (
	MsgRegistered      = "Registration successful. Please verify your phone number using the OTP sent to you."
	MsgUnverifiedLogin = "Account is not verified. A new OTP has been resent to your phone number."
	MsgOtpSent         = "OTP sent successfully"
	MsgOtpVerified     = "OTP verified successfully"
	MsgPasswordReset   = "password reset successful"
)

// Service coordinates the account lifecycle around a user's verification state
// and its single pending OTP. It keeps no state between calls.
type Service struct {
	store    Store
	hasher   Hasher
	otps     OtpGenerator
	notifier Notifier
	tokens   TokenIssuer
	clock    domain.Clock
	log      logrus.FieldLogger

	dummyHash string // Compared against for unknown phone numbers
}

// NewService creates the auth service. It fails if the hasher cannot produce
// the placeholder hash used for unknown phone numbers.
func NewService(
	store Store,
	hasher Hasher,
	otps OtpGenerator,
	notifier Notifier,
	tokens TokenIssuer,
	clock domain.Clock,
	log logrus.FieldLogger,
) (*Service, error) {
	dummyHash, err := hasher.Hash("placeholder-pin")
	if err != nil {
		return nil, fmt.Errorf("prepare placeholder hash: %w", err)
	}
	return &Service{
		store:     store,
		hasher:    hasher,
		otps:      otps,
		notifier:  notifier,
		tokens:    tokens,
		clock:     clock,
		log:       log,
		dummyHash: dummyHash,
	}, nil
}

// Register opens an unverified account with its farm and texts a verification code.
// If the code cannot be delivered the account is deleted again.
func (s *Service) Register(ctx context.Context, reg domain.Registration) (*Result, error) {
	profile := reg.Profile
	if profile.Email != nil && strings.TrimSpace(*profile.Email) == "" {
		profile.Email = nil // Blank email means none
	}

	if err := s.ensureUnused(ctx, profile); err != nil {
		return nil, err
	}

	pinHash, err := s.hasher.Hash(reg.Pin)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	pending, err := s.newOtp(domain.OtpPurposeVerification)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Profile:    profile,
		PendingOtp: &pending,
		Farm:       &domain.Farm{FarmDetails: reg.Farm},
	}
	created, err := s.store.CreateUserWithFarm(ctx, user, pinHash)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err // Lost a race with another registration
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.notifier.SendSMS(ctx, created.PhoneNumber, verificationMessage(pending.Code)); err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": created.ID,
			"error":   err.Error(),
		}).Warn("Verification OTP delivery failed, removing account")

		// The account must not outlive a failed send, even if the caller gave up.
		if delErr := s.store.DeleteUser(context.WithoutCancel(ctx), created.ID); delErr != nil {
			s.log.WithFields(logrus.Fields{
				"user_id": created.ID,
				"error":   delErr.Error(),
			}).Error("Compensating delete failed, unverifiable account left behind")
		}
		return nil, domain.ErrOtpDelivery
	}

	s.log.WithField("user_id", created.ID).Info("Farmer registered")
	return &Result{User: created, Message: MsgRegistered}, nil
}

// Login checks the PIN. Verified accounts get a token; unverified ones get a
// fresh code by SMS instead.
func (s *Service) Login(ctx context.Context, phone, pin string) (*Result, error) {
	cred, err := s.store.FindCredentialByPhone(ctx, phone)
	if errors.Is(err, domain.ErrNotFound) {
		// Spend the same hashing work as a real mismatch.
		s.hasher.Verify(pin, s.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find credential: %w", err)
	}

	if !s.hasher.Verify(pin, cred.PinHash) {
		return nil, domain.ErrInvalidCredentials
	}

	user := cred.User
	if !user.IsVerified {
		updated, err := s.sendOtp(ctx, user, domain.OtpPurposeVerification, verificationMessage)
		if err != nil {
			return nil, err
		}
		return &Result{User: updated, Message: MsgUnverifiedLogin}, nil
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.log.WithField("user_id", user.ID).Info("Farmer logged in")
	return &Result{User: user, Token: token}, nil
}

// RequestPasswordReset texts a reset code, replacing any pending code
func (s *Service) RequestPasswordReset(ctx context.Context, phone string) (*Result, error) {
	user, err := s.store.FindByPhone(ctx, phone)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if _, err := s.sendOtp(ctx, user, domain.OtpPurposePasswordReset, resetMessage); err != nil {
		return nil, err
	}
	return &Result{Message: MsgOtpSent}, nil
}

// VerifyOtp marks the account verified when code matches the live pending code
func (s *Service) VerifyOtp(ctx context.Context, phone, code string) (*Result, error) {
	user, err := s.redeemable(ctx, phone, code, verifyErrors)
	if err != nil {
		return nil, err
	}

	var changes domain.UserChanges
	changes.MarkVerified()
	if err := s.redeem(ctx, user.ID, code, changes, verifyErrors); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("Phone number verified")
	return &Result{Message: MsgOtpVerified}, nil
}

// ResetPassword replaces the PIN when code matches the live pending code.
// The verification flag is left as it is.
func (s *Service) ResetPassword(ctx context.Context, phone, code, newPin string) (*Result, error) {
	user, err := s.redeemable(ctx, phone, code, resetErrors)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(newPin) == "" {
		return nil, domain.ErrNewPinRequired
	}

	pinHash, err := s.hasher.Hash(newPin)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	var changes domain.UserChanges
	changes.PinHash = &pinHash
	if err := s.redeem(ctx, user.ID, code, changes, resetErrors); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("PIN reset")
	return &Result{Message: MsgPasswordReset}, nil
}

// otpErrors names the failures of one code-redeeming operation
type otpErrors struct {
	missing  error
	expired  error
	mismatch error
}

var (
	verifyErrors = otpErrors{domain.ErrInvalidOtpRequest, domain.ErrOtpExpired, domain.ErrInvalidOtp}
	resetErrors  = otpErrors{domain.ErrInvalidResetRequest, domain.ErrResetCodeExpired, domain.ErrInvalidResetCode}
)

// redeemable returns the user whose live pending code equals code
func (s *Service) redeemable(ctx context.Context, phone, code string, errs otpErrors) (*domain.User, error) {
	user, err := s.store.FindByPhone(ctx, phone)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errs.missing
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	pending := user.PendingOtp
	if pending == nil {
		return nil, errs.missing // Nothing issued or already redeemed
	}
	if pending.Expired(s.clock.Now()) {
		return nil, errs.expired
	}
	if !pending.Matches(code) {
		return nil, errs.mismatch
	}
	return user, nil
}

// redeem applies changes and clears the pending code in one conditional write.
// Only the first of several concurrent redemptions of a code succeeds, and a
// code replaced in the meantime is left alone.
func (s *Service) redeem(ctx context.Context, id, code string, changes domain.UserChanges, errs otpErrors) error {
	changes.ClearOtp()
	changes.RequireOtp(code, s.clock.Now())
	_, err := s.store.UpdateUser(ctx, id, changes)
	switch {
	case errors.Is(err, domain.ErrOtpChanged):
		return errs.mismatch // Lost the race for this code
	case errors.Is(err, domain.ErrNotFound):
		return errs.missing // Account deleted meanwhile
	case err != nil:
		return fmt.Errorf("redeem otp: %w", err)
	}
	return nil
}

// ensureUnused rejects a phone number or email that already belongs to someone
func (s *Service) ensureUnused(ctx context.Context, profile domain.Profile) error {
	if _, err := s.store.FindByPhone(ctx, profile.PhoneNumber); err == nil {
		return domain.ErrPhoneExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("find by phone: %w", err)
	}

	if profile.Email == nil {
		return nil
	}
	if _, err := s.store.FindByEmail(ctx, *profile.Email); err == nil {
		return domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("find by email: %w", err)
	}
	return nil
}

// sendOtp stores a fresh code on user, overwriting any pending one, and texts it
func (s *Service) sendOtp(ctx context.Context, user *domain.User, purpose domain.OtpPurpose, message func(string) string) (*domain.User, error) {
	pending, err := s.newOtp(purpose)
	if err != nil {
		return nil, err
	}

	var changes domain.UserChanges
	changes.SetOtp(pending) // Overwrites any pending code
	updated, err := s.store.UpdateUser(ctx, user.ID, changes)
	if err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}

	if err := s.notifier.SendSMS(ctx, user.PhoneNumber, message(pending.Code)); err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": user.ID,
			"purpose": purpose,
			"error":   err.Error(),
		}).Warn("OTP delivery failed")
		return nil, domain.ErrOtpSend
	}

	s.log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"purpose": purpose,
	}).Info("OTP sent")
	return updated, nil
}

func (s *Service) newOtp(purpose domain.OtpPurpose) (domain.PendingOtp, error) {
	code, expiresAt, err := s.otps.Generate()
	if err != nil {
		return domain.PendingOtp{}, err
	}
	return domain.PendingOtp{Code: code, ExpiresAt: expiresAt, Purpose: purpose}, nil
}

func verificationMessage(code string) string {
	return fmt.Sprintf("Your verification code is %s. It is valid for %d minutes.", code, int(domain.OtpTTL.Minutes()))
}

func resetMessage(code string) string {
	return fmt.Sprintf("Your password reset code is %s. It is valid for %d minutes. If you did not request this, please ignore this message.",
		code, int(domain.OtpTTL.Minutes()))
}
