package store

import (
	"time" // Timestamps

	"github.com/google/uuid" // Record ids
	"gorm.io/gorm"           // GORM ORM library

	"farmer_registry/internal/domain" // Domain models
)

// userRecord is the users table row; Pin holds the bcrypt hash and never leaves this package
type userRecord struct {
	ID                string      `gorm:"primaryKey;size:36"`           // UUID primary key
	FirstName         string      `gorm:"size:100;not null"`            // First name
	MiddleName        *string     `gorm:"size:100"`                     // Middle name
	LastName          string      `gorm:"size:100;not null"`            // Last name
	Gender            string      `gorm:"size:16;not null"`             // Male or Female
	AgeGroup          string      `gorm:"size:32;not null"`             // Age bracket
	ResidenceCounty   string      `gorm:"size:100;not null"`            // County of residence
	ResidenceLocation *string     `gorm:"size:100"`                     // Location of residence
	Email             *string     `gorm:"uniqueIndex;size:191"`         // Unique when present
	PhoneNumber       string      `gorm:"uniqueIndex;size:32;not null"` // Unique login identity
	BusinessNumber    *string     `gorm:"size:32"`                      // Business contact
	YearsOfExperience *int        // Years farming
	Pin               string      `gorm:"size:255;not null"`      // PIN hash
	IsVerified        bool        `gorm:"not null;default:false"` // Phone verified
	Otp               *string     `gorm:"size:6"`                 // Pending code
	OtpExpiry         *time.Time  // Pending code expiry
	OtpPurpose        *string     `gorm:"size:32"` // Why the code was issued
	CreatedAt         time.Time   `gorm:"index"`   // Creation time
	UpdatedAt         time.Time   // Last update time
	Farm              *farmRecord `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // One-to-one owned farm
}

// TableName returns the table name for GORM
func (userRecord) TableName() string { return "users" }

// BeforeCreate assigns the id
func (r *userRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// farmRecord is the farms table row
type farmRecord struct {
	ID                     string      `gorm:"primaryKey;size:36"`           // UUID primary key
	UserID                 string      `gorm:"uniqueIndex;size:36;not null"` // Owning user, one farm each
	Name                   string      `gorm:"size:150;not null"`            // Farm name
	County                 string      `gorm:"size:100;not null"`            // County
	AdministrativeLocation string      `gorm:"size:100;not null"`            // Administrative location
	Size                   float64     `gorm:"not null"`                     // Acres
	Ownership              string      `gorm:"size:16;not null"`             // Freehold, Leasehold or Communal
	FarmingTypes           []string    `gorm:"type:text;serializer:json"`    // Ordered list of activities
	CreatedAt              time.Time   `gorm:"index"`                        // Creation time
	UpdatedAt              time.Time   // Last update time
	User                   *userRecord `gorm:"foreignKey:UserID;constraint:-"` // Owner, for listings
}

// TableName returns the table name for GORM
func (farmRecord) TableName() string { return "farms" }

// BeforeCreate assigns the id
func (r *farmRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Models lists the tables this package owns, in creation order
func Models() []any {
	return []any{&userRecord{}, &farmRecord{}}
}

// newUserRecord maps a domain user and PIN hash to a row
func newUserRecord(u *domain.User, pinHash string) *userRecord {
	r := &userRecord{
		ID:                u.ID,
		FirstName:         u.FirstName,
		MiddleName:        u.MiddleName,
		LastName:          u.LastName,
		Gender:            string(u.Gender),
		AgeGroup:          u.AgeGroup,
		ResidenceCounty:   u.ResidenceCounty,
		ResidenceLocation: u.ResidenceLocation,
		Email:             u.Email,
		PhoneNumber:       u.PhoneNumber,
		BusinessNumber:    u.BusinessNumber,
		YearsOfExperience: u.YearsOfExperience,
		Pin:               pinHash,
		IsVerified:        u.IsVerified,
	}
	if p := u.PendingOtp; p != nil {
		code, expiry, purpose := p.Code, p.ExpiresAt, string(p.Purpose)
		r.Otp, r.OtpExpiry, r.OtpPurpose = &code, &expiry, &purpose
	}
	return r
}

// newFarmRecord maps farm details to a row owned by userID
func newFarmRecord(userID string, f domain.FarmDetails) *farmRecord {
	return &farmRecord{
		UserID:                 userID,
		Name:                   f.Name,
		County:                 f.County,
		AdministrativeLocation: f.AdministrativeLocation,
		Size:                   f.Size,
		Ownership:              string(f.Ownership),
		FarmingTypes:           append([]string(nil), f.FarmingTypes...),
	}
}

// toUser projects a row to the caller-facing user, dropping the PIN hash.
// A pending code is only reported when both code and expiry are set.
func toUser(r *userRecord) *domain.User {
	u := &domain.User{
		ID: r.ID,
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
		IsVerified: r.IsVerified,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.Otp != nil && r.OtpExpiry != nil {
		p := domain.PendingOtp{Code: *r.Otp, ExpiresAt: *r.OtpExpiry}
		if r.OtpPurpose != nil {
			p.Purpose = domain.OtpPurpose(*r.OtpPurpose)
		}
		u.PendingOtp = &p
	}
	if r.Farm != nil {
		u.Farm = toFarm(r.Farm)
	}
	return u
}

// toFarm projects a farm row, attaching the owner summary when loaded
func toFarm(r *farmRecord) *domain.Farm {
	f := &domain.Farm{
		ID:     r.ID,
		UserID: r.UserID,
		FarmDetails: domain.FarmDetails{
			Name:                   r.Name,
			County:                 r.County,
			AdministrativeLocation: r.AdministrativeLocation,
			Size:                   r.Size,
			Ownership:              domain.Ownership(r.Ownership),
			FarmingTypes:           r.FarmingTypes,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if o := r.User; o != nil {
		f.Owner = &domain.FarmOwner{
			ID:          o.ID,
			FirstName:   o.FirstName,
			LastName:    o.LastName,
			PhoneNumber: o.PhoneNumber,
			Email:       o.Email,
		}
	}
	return f
}
