package domain

import "errors"

// Error kinds. Every error returned to callers wraps exactly one of these.
var (
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
)

// Error is a caller-facing failure with a kind and a verbatim message
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the kind to errors.Is
func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an Error of the given kind
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// ErrOtpChanged is returned by stores when a guarded update finds the pending
// code gone, replaced or expired
var ErrOtpChanged = errors.New("pending OTP changed")

// Registration errors
var (
	ErrPhoneExists = NewError(ErrConflict, "phone number already exists")
	ErrEmailExists = NewError(ErrConflict, "email already exists")
	ErrOtpDelivery = NewError(ErrBadRequest, "failed to send verification OTP")
)

// Login and verification errors
var (
	ErrInvalidCredentials = NewError(ErrUnauthorized, "invalid credentials")
	ErrInvalidOtpRequest  = NewError(ErrUnauthorized, "invalid OTP request")
	ErrOtpExpired         = NewError(ErrUnauthorized, "OTP has expired")
	ErrInvalidOtp         = NewError(ErrUnauthorized, "invalid OTP")
	ErrOtpSend            = NewError(ErrBadRequest, "failed to send OTP")
)

// Password reset errors
var (
	ErrUserNotFound        = NewError(ErrNotFound, "user not found")
	ErrInvalidResetRequest = NewError(ErrUnauthorized, "invalid reset request")
	ErrResetCodeExpired    = NewError(ErrUnauthorized, "reset code has expired")
	ErrInvalidResetCode    = NewError(ErrUnauthorized, "invalid reset code")
	ErrNewPinRequired      = NewError(ErrBadRequest, "new PIN is required")
)
