package domain

import "time" // Timestamps

// Gender of a farmer
type Gender string

const (
	GenderMale   Gender = "Male"   // Male farmer
	GenderFemale Gender = "Female" // Female farmer
)

// Valid reports whether g is one of the known genders
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Profile holds the personal and professional details of a farmer
type Profile struct {
	FirstName         string  `json:"firstName"`                   // First name
	MiddleName        *string `json:"middleName,omitempty"`        // Middle name (optional)
	LastName          string  `json:"lastName"`                    // Last name
	Gender            Gender  `json:"gender"`                      // Male or Female
	AgeGroup          string  `json:"ageGroup"`                    // Free-form age bracket, e.g. 35-44
	ResidenceCounty   string  `json:"residenceCounty"`             // County of residence
	ResidenceLocation *string `json:"residenceLocation,omitempty"` // Location within the county (optional)
	Email             *string `json:"email,omitempty"`             // Unique when present
	PhoneNumber       string  `json:"phoneNumber"`                 // Unique, required
	BusinessNumber    *string `json:"businessNumber,omitempty"`    // Business contact number (optional)
	YearsOfExperience *int    `json:"yearsOfExperience,omitempty"` // Non-negative when present
}

// User is a registered farmer as seen by callers. The PIN hash never appears here.
type User struct {
	ID string `json:"id"` // Opaque unique id
	Profile
	IsVerified bool        `json:"isVerified"` // Phone ownership proven via OTP
	PendingOtp *PendingOtp `json:"-"`          // Live one-time code, if any
	CreatedAt  time.Time   `json:"createdAt"`  // Maintained by the store
	UpdatedAt  time.Time   `json:"updatedAt"`  // Maintained by the store
	Farm       *Farm       `json:"farm,omitempty"`
}

// Credential pairs a user with the stored PIN hash, for verification only
type Credential struct {
	User    *User
	PinHash string
}

// ProfileChanges is a partial profile update; nil fields are left untouched.
// The phone number is the login identity and cannot be changed here.
type ProfileChanges struct {
	FirstName         *string `json:"firstName"`
	MiddleName        *string `json:"middleName"`
	LastName          *string `json:"lastName"`
	Gender            *Gender `json:"gender"`
	AgeGroup          *string `json:"ageGroup"`
	ResidenceCounty   *string `json:"residenceCounty"`
	ResidenceLocation *string `json:"residenceLocation"`
	Email             *string `json:"email"`
	BusinessNumber    *string `json:"businessNumber"`
	YearsOfExperience *int    `json:"yearsOfExperience"`
}

// UserChanges describes an update to a user record
type UserChanges struct {
	Profile    ProfileChanges // Profile fields to change
	IsVerified *bool          // New verification flag
	PinHash    *string        // New PIN hash

	otp        *PendingOtp
	otpChanged bool
	guard      *otpGuard
}

// otpGuard is the pending code an update is conditional on
type otpGuard struct {
	code string
	at   time.Time
}

// SetOtp replaces whatever code is pending with p
func (c *UserChanges) SetOtp(p PendingOtp) {
	c.otp = &p
	c.otpChanged = true
}

// ClearOtp removes the pending code and its expiry together
func (c *UserChanges) ClearOtp() {
	c.otp = nil
	c.otpChanged = true
}

// Otp returns the requested pending code and whether the slot changes at all
func (c UserChanges) Otp() (*PendingOtp, bool) {
	return c.otp, c.otpChanged
}

// RequireOtp makes the update apply only if code is still the live pending
// code at instant at. Stores report a failed guard as ErrOtpChanged.
func (c *UserChanges) RequireOtp(code string, at time.Time) {
	c.guard = &otpGuard{code: code, at: at}
}

// RequiredOtp returns the guard set by RequireOtp, if any
func (c UserChanges) RequiredOtp() (code string, at time.Time, ok bool) {
	if c.guard == nil {
		return "", time.Time{}, false
	}
	return c.guard.code, c.guard.at, true
}

// MarkVerified sets the verification flag
func (c *UserChanges) MarkVerified() {
	verified := true
	c.IsVerified = &verified
}

// Registration is everything needed to open a farmer account
type Registration struct {
	Profile Profile     // Farmer details
	Farm    FarmDetails // The farmer's farm
	Pin     string      // Raw PIN, hashed before storage
}
