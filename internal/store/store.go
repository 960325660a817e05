// Package store is the narrow persistence boundary for ads and contact
// submissions.
//
// Two implementations satisfy the interfaces: SQL (sqlx over MySQL or
// Postgres) for production and Memory for tests and local demos.  Both
// return ErrNotFound for missing rows and leave every other policy
// (visibility, error swallowing) to the callers.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/yanizio/escortde/internal/ad"
)

// ErrNotFound is returned when no row matches the identifier.
var ErrNotFound = errors.New("store: not found")

// Filter selects approved ads.  Zero fields mean "any".
type Filter struct {
	Gender  ad.Gender
	Country string // case-insensitive prefix match
	Limit   int
}

// Patch is a partial update.  Nil fields are left unchanged.
type Patch struct {
	Name        *string
	Age         *string
	Gender      *ad.Gender
	City        *string
	Country     *string
	Phone       *string
	Email       *string
	WhatsApp    *string
	Telegram    *string
	Instagram   *string
	Twitter     *string
	HairColor   *string
	Languages   *[]string
	Description *string
	Services    *[]ad.Service
	Rates       *[]ad.Rate
	Images      *[]string
	Status      *ad.Status
}

// AdStore is the ad half of the store.
type AdStore interface {
	ListApproved(ctx context.Context, f Filter) ([]ad.Ad, error)
	ApprovedCities(ctx context.Context, g ad.Gender, countryPrefix string) ([]string, error)
	ListAll(ctx context.Context) ([]ad.Ad, error)
	GetByID(ctx context.Context, id string) (*ad.Ad, error)
	GetByPublicID(ctx context.Context, n int64) (*ad.Ad, error)
	Create(ctx context.Context, a *ad.Ad) (*ad.Ad, error)
	Update(ctx context.Context, id string, p Patch) (*ad.Ad, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ContactStore is the contact-submission half of the store.
type ContactStore interface {
	ListContacts(ctx context.Context) ([]ad.ContactSubmission, error)
	GetContact(ctx context.Context, id string) (*ad.ContactSubmission, error)
	CreateContact(ctx context.Context, c *ad.ContactSubmission) (*ad.ContactSubmission, error)
	SetContactStatus(ctx context.Context, id string, s ad.ContactStatus) error
	DeleteContact(ctx context.Context, id string) (bool, error)
}

// Store bundles both halves.
type Store interface {
	AdStore
	ContactStore
}

// Apply copies the non-nil patch fields onto a.
func (p Patch) Apply(a *ad.Ad) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&a.Name, p.Name)
	set(&a.Age, p.Age)
	set(&a.City, p.City)
	set(&a.Country, p.Country)
	set(&a.Phone, p.Phone)
	set(&a.Email, p.Email)
	set(&a.WhatsApp, p.WhatsApp)
	set(&a.Telegram, p.Telegram)
	set(&a.Instagram, p.Instagram)
	set(&a.Twitter, p.Twitter)
	set(&a.HairColor, p.HairColor)
	set(&a.Description, p.Description)
	if p.Gender != nil {
		a.Gender = *p.Gender
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Languages != nil {
		a.Languages = ad.List[string](*p.Languages)
	}
	if p.Services != nil {
		a.Services = ad.List[ad.Service](*p.Services)
	}
	if p.Rates != nil {
		a.Rates = ad.List[ad.Rate](*p.Rates)
	}
	if p.Images != nil {
		a.Images = ad.List[string](*p.Images)
	}
}

// hasCountryPrefix is the in-memory twin of LOWER(country) LIKE 'x%'.
func hasCountryPrefix(country, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(country), strings.ToLower(prefix))
}
