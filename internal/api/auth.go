package api

import (
	"context"  // Request contexts
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"farmer_registry/internal/auth"   // Auth orchestration
	"farmer_registry/internal/domain" // Domain models
)

// AuthService is the account lifecycle the auth routes drive
type AuthService interface {
	Register(ctx context.Context, reg domain.Registration) (*auth.Result, error)
	Login(ctx context.Context, phone, pin string) (*auth.Result, error)
	RequestPasswordReset(ctx context.Context, phone string) (*auth.Result, error)
	VerifyOtp(ctx context.Context, phone, code string) (*auth.Result, error)
	ResetPassword(ctx context.Context, phone, code, newPin string) (*auth.Result, error)
}

var _ AuthService = (*auth.Service)(nil)

// RegisterRequest carries the farmer, the farm and the PIN in one flat body
type RegisterRequest struct {
	// Farm details
	FarmName               string   `json:"farmName" binding:"required"`
	County                 string   `json:"county" binding:"required"`
	AdministrativeLocation string   `json:"administrativeLocation" binding:"required"`
	FarmSize               float64  `json:"farmSize" binding:"required,gt=0"`
	Ownership              string   `json:"ownership" binding:"required,oneof=Freehold Leasehold Communal"`
	FarmingTypes           []string `json:"farmingTypes" binding:"required,min=1,dive,required"`

	// Personal information
	FirstName         string  `json:"firstName" binding:"required"`
	MiddleName        *string `json:"middleName"`
	LastName          string  `json:"lastName" binding:"required"`
	Gender            string  `json:"gender" binding:"required,oneof=Male Female"`
	AgeGroup          string  `json:"ageGroup" binding:"required"`
	ResidenceCounty   string  `json:"residenceCounty" binding:"required"`
	ResidenceLocation *string `json:"residenceLocation"`

	// Professional information
	YearsOfExperience *int    `json:"yearsOfExperience" binding:"omitempty,min=0"`
	Email             *string `json:"email" binding:"omitempty,email"`
	PhoneNumber       string  `json:"phoneNumber" binding:"required"`
	BusinessNumber    *string `json:"businessNumber"`
	Pin               string  `json:"pin" binding:"required"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Pin         string `json:"pin" binding:"required"`
}

// PhoneRequest is the body of POST /auth/request-password-reset
type PhoneRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// VerifyOtpRequest is the body of POST /auth/verify-otp
type VerifyOtpRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Otp         string `json:"otp" binding:"required,len=6,numeric"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password
type ResetPasswordRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Otp         string `json:"otp" binding:"required,len=6,numeric"`
	NewPin      string `json:"newPin"` // Blank pins are rejected after the code is checked
}

func (r RegisterRequest) registration() domain.Registration {
	return domain.Registration{
		Profile: domain.Profile{
			FirstName:         r.FirstName,
			MiddleName:        r.MiddleName,
			LastName:          r.LastName,
			Gender:            domain.Gender(r.Gender),
			AgeGroup:          r.AgeGroup,
			ResidenceCounty:   r.ResidenceCounty,
			ResidenceLocation: r.ResidenceLocation,
			Email:             r.Email,
			PhoneNumber:       r.PhoneNumber,
			BusinessNumber:    r.BusinessNumber,
			YearsOfExperience: r.YearsOfExperience,
		},
		Farm: domain.FarmDetails{
			Name:                   r.FarmName,
			County:                 r.County,
			AdministrativeLocation: r.AdministrativeLocation,
			Size:                   r.FarmSize,
			Ownership:              domain.Ownership(r.Ownership),
			FarmingTypes:           r.FarmingTypes,
		},
		Pin: r.Pin,
	}
}

// RegisterHandler opens an account and texts the verification code
func RegisterHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}
		res, err := d.Auth.Register(c.Request.Context(), req.registration())
		if err != nil {
			respondError(c, d.Log, err)
			return
		}
		d.invalidateLists(c.Request.Context())
		c.JSON(http.StatusCreated, res)
	}
}

// LoginHandler returns a token for verified accounts and resends the code otherwise
func LoginHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}
		res, err := d.Auth.Login(c.Request.Context(), req.PhoneNumber, req.Pin)
		if err != nil {
			respondError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// RequestPasswordResetHandler texts a reset code
func RequestPasswordResetHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PhoneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}
		res, err := d.Auth.RequestPasswordReset(c.Request.Context(), req.PhoneNumber)
		if err != nil {
			respondError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// VerifyOtpHandler redeems a code and marks the account verified
func VerifyOtpHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyOtpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}
		res, err := d.Auth.VerifyOtp(c.Request.Context(), req.PhoneNumber, req.Otp)
		if err != nil {
			respondError(c, d.Log, err)
			return
		}
		d.invalidateLists(c.Request.Context()) // Verification shows up in listings
		c.JSON(http.StatusOK, res)
	}
}

// ResetPasswordHandler redeems a code and sets a new PIN
func ResetPasswordHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err)
			return
		}
		res, err := d.Auth.ResetPassword(c.Request.Context(), req.PhoneNumber, req.Otp, req.NewPin)
		if err != nil {
			respondError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
