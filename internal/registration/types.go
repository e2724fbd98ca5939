// Package registration holds the creator registration form state and the
// two-step submission flow (register, then upload the profile photo).
package registration

import (
	"fmt"

	"github.com/lensfolio/lensfolio/internal/photo"
)

// CreatorType selects which service checklist is active.
type CreatorType string

const (
	Photographer CreatorType = "photographer"
	Editor       CreatorType = "editor"
)

// CreatorTypes lists the types in tab order.
var CreatorTypes = []CreatorType{Photographer, Editor}

// Valid reports whether t is a known creator type.
func (t CreatorType) Valid() bool {
	return t == Photographer || t == Editor
}

func (t CreatorType) String() string {
	return string(t)
}

// Label is the tab title for t.
func (t CreatorType) Label() string {
	switch t {
	case Photographer:
		return "Photographer"
	case Editor:
		return "Editor"
	default:
		return string(t)
	}
}

// ParseCreatorType converts s into a CreatorType.
func ParseCreatorType(s string) (CreatorType, error) {
	t := CreatorType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCreatorType, s)
	}
	return t, nil
}

// UnitPerSession is the pricing unit sent with every service.
const UnitPerSession = "per session"

// ServiceSelection is one priced offering in the registration payload.
type ServiceSelection struct {
	ServiceName string  `json:"service_name" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Unit        string  `json:"unit" validate:"required"`
}

// EntryID identifies a portfolio row for its whole lifetime.
type EntryID uint64

// PortfolioEntry is one portfolio link row.
type PortfolioEntry struct {
	ID  EntryID
	URL string
}

// ProfileField names a free-text profile input.
type ProfileField string

const (
	FieldFullName     ProfileField = "full_name"
	FieldEmail        ProfileField = "email"
	FieldPhone        ProfileField = "phone"
	FieldLocation     ProfileField = "location"
	FieldExperience   ProfileField = "experience"
	FieldEquipment    ProfileField = "equipment"
	FieldBio          ProfileField = "bio"
	FieldWebsite      ProfileField = "website"
	FieldInstagram    ProfileField = "instagram"
	FieldAvailability ProfileField = "availability"
)

// ProfileFields lists the profile inputs in form order.
var ProfileFields = []ProfileField{
	FieldFullName,
	FieldEmail,
	FieldPhone,
	FieldLocation,
	FieldExperience,
	FieldEquipment,
	FieldBio,
	FieldWebsite,
	FieldInstagram,
	FieldAvailability,
}

// Profile holds the creator's personal details.
type Profile struct {
	FullName     string `json:"full_name" yaml:"full_name" validate:"required,max=120"`
	Email        string `json:"email" yaml:"email" validate:"required,email"`
	Phone        string `json:"phone" yaml:"phone" validate:"required,max=32"`
	Location     string `json:"location" yaml:"location" validate:"required"`
	Experience   string `json:"experience" yaml:"experience"`
	Equipment    string `json:"equipment" yaml:"equipment"`
	Bio          string `json:"bio" yaml:"bio" validate:"max=2000"`
	Website      string `json:"website" yaml:"website" validate:"omitempty,url"`
	Instagram    string `json:"instagram" yaml:"instagram"`
	Availability string `json:"availability" yaml:"availability" validate:"required"`
}

// Get returns the value of f.
func (p Profile) Get(f ProfileField) string {
	if ptr := p.field(f); ptr != nil {
		return *ptr
	}
	return ""
}

func (p *Profile) field(f ProfileField) *string {
	switch f {
	case FieldFullName:
		return &p.FullName
	case FieldEmail:
		return &p.Email
	case FieldPhone:
		return &p.Phone
	case FieldLocation:
		return &p.Location
	case FieldExperience:
		return &p.Experience
	case FieldEquipment:
		return &p.Equipment
	case FieldBio:
		return &p.Bio
	case FieldWebsite:
		return &p.Website
	case FieldInstagram:
		return &p.Instagram
	case FieldAvailability:
		return &p.Availability
	}
	return nil
}

// Payload is the JSON body sent to the registration endpoint.
type Payload struct {
	CreatorType CreatorType `json:"creator_type" validate:"required,creator-type"`
	Profile
	Services       []ServiceSelection `json:"services" validate:"min=1,dive"`
	Portfolio      []string           `json:"portfolio" validate:"dive,url"`
	PaymentMethods []string           `json:"payment_methods"`
}

// StagedPhoto is the locally selected profile photo awaiting upload.
type StagedPhoto struct {
	Path    string
	Name    string // base name shown next to the preview
	Token   uint64
	Preview *photo.Preview // nil until decoding finishes
}
