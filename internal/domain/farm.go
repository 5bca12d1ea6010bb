package domain

import "time" // Timestamps

// Ownership is the land tenure of a farm
type Ownership string

const (
	OwnershipFreehold  Ownership = "Freehold"  // Owned outright
	OwnershipLeasehold Ownership = "Leasehold" // Leased land
	OwnershipCommunal  Ownership = "Communal"  // Community land
)

// Valid reports whether o is one of the known tenure types
func (o Ownership) Valid() bool {
	switch o {
	case OwnershipFreehold, OwnershipLeasehold, OwnershipCommunal:
		return true
	}
	return false
}

// FarmDetails are the farm attributes supplied by the farmer
type FarmDetails struct {
	Name                   string    `json:"name"`                   // Farm name
	County                 string    `json:"county"`                 // County of the farm
	AdministrativeLocation string    `json:"administrativeLocation"` // Location within the county
	Size                   float64   `json:"size"`                   // Acres, positive
	Ownership              Ownership `json:"ownership"`              // Freehold, Leasehold or Communal
	FarmingTypes           []string  `json:"farmingTypes"`           // Non-empty ordered list of activities
}

// Farm is the single farm owned by a user
type Farm struct {
	ID     string `json:"id"`     // Opaque unique id
	UserID string `json:"userId"` // Owning user
	FarmDetails
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Owner     *FarmOwner `json:"user,omitempty"` // Filled on farm listings
}

// FarmOwner is the public summary of a farm's owner
type FarmOwner struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	PhoneNumber string  `json:"phoneNumber"`
	Email       *string `json:"email,omitempty"`
}

// FarmChanges is a partial farm update; nil fields are left untouched
type FarmChanges struct {
	Name                   *string    `json:"name"`
	County                 *string    `json:"county"`
	AdministrativeLocation *string    `json:"administrativeLocation"`
	Size                   *float64   `json:"size"`
	Ownership              *Ownership `json:"ownership"`
	FarmingTypes           []string   `json:"farmingTypes"`
}
