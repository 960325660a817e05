// internal/ad/model.go
//
// Listing and contact records.
//
// Context
// -------
// An Ad is created by the public submission form in the pending state and
// only becomes visible once an admin approves it.  The relational store is
// the source of truth; these structs carry `db` tags for sqlx and `json`
// tags for the JSON-LD and list columns.
//
// Identity
// --------
//   - ID        – opaque string.  New rows get a UUID; rows imported from
//     the earlier schema keep their "ad_<ms>_<rand>" ids.
//   - PublicID  – optional numeric id assigned by the store, used for
//     shorter canonical URLs.
//
// Notes
// -----
// • Age is stored as text.  AgeYears parses it for display only.
// • Oxford commas, two spaces after periods.
package ad

import (
	"strconv"
	"strings"
	"time"
)

/*──────────────────────────── gender ──────────────────────────────────────*/

// Gender is the stored category value.
type Gender string

const (
	Female Gender = "female"
	Male   Gender = "male"
	Trans  Gender = "trans"

	// Retired categories still present in old rows.
	LuxuryEscort Gender = "luxury_escort"
	Webcam       Gender = "webcam"
)

// CurrentGenders lists the publicly routable categories in nav order.
var CurrentGenders = []Gender{Female, Male, Trans}

// Current reports whether g is publicly routable.
func (g Gender) Current() bool {
	switch g {
	case Female, Male, Trans:
		return true
	}
	return false
}

// Known reports whether g is any stored value, current or retired.
func (g Gender) Known() bool {
	return g.Current() || g == LuxuryEscort || g == Webcam
}

// Label is the English display label.
func (g Gender) Label() string {
	switch g {
	case Female:
		return "Female"
	case Male:
		return "Male"
	case Trans:
		return "Trans"
	case LuxuryEscort:
		return "Luxury/High End"
	case Webcam:
		return "Webcam"
	}
	return ""
}

/*──────────────────────────── status ──────────────────────────────────────*/

// Status is the moderation state of an Ad.
type Status string

const (
	Pending  Status = "pending"
	Approved Status = "approved"
	Inactive Status = "inactive"
)

// Valid reports whether s is one of the three lifecycle states.
func (s Status) Valid() bool {
	return s == Pending || s == Approved || s == Inactive
}

/*──────────────────────────── records ─────────────────────────────────────*/

// Service is one offered service with an optional surcharge.
type Service struct {
	Name       string `json:"name"                 validate:"required,max=80"`
	Included   bool   `json:"included"`
	ExtraPrice string `json:"extraPrice,omitempty" validate:"max=20"`
}

// Rate is a time-based price tuple, e.g. {"1 hour", "200", "250"}.
type Rate struct {
	Time    string `json:"time"    validate:"required,max=40"`
	Incall  string `json:"incall"  validate:"max=20"`
	Outcall string `json:"outcall" validate:"max=20"`
}

// Ad is one listing.
type Ad struct {
	ID          string        `db:"id"`
	PublicID    *int64        `db:"public_id"`
	Name        string        `db:"name"`
	Age         string        `db:"age"`
	Gender      Gender        `db:"gender"`
	City        string        `db:"city"`
	Country     string        `db:"country"`
	Phone       string        `db:"phone"`
	Email       string        `db:"email"`
	WhatsApp    string        `db:"whatsapp"`
	Telegram    string        `db:"telegram"`
	Instagram   string        `db:"instagram"`
	Twitter     string        `db:"twitter"`
	HairColor   string        `db:"hair_color"`
	Languages   List[string]  `db:"languages"`
	Description string        `db:"description"`
	Services    List[Service] `db:"services"`
	Rates       List[Rate]    `db:"rates"`
	Images      List[string]  `db:"images"`
	Status      Status        `db:"status"`
	SubmittedAt time.Time     `db:"submitted_at"`
}

// Public reports whether the ad may appear on public pages.
func (a *Ad) Public() bool { return a != nil && a.Status == Approved }

// AgeYears parses the stored age.  ok is false for empty or malformed text,
// which templates render as-is.
func (a *Ad) AgeYears() (years int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(a.Age))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Ident is the identifier used in canonical URLs: the public id when the
// store assigned one, otherwise the opaque id.
func (a *Ad) Ident() string {
	if a.PublicID != nil && *a.PublicID > 0 {
		return strconv.FormatInt(*a.PublicID, 10)
	}
	return a.ID
}

// Cover returns the first image or fallback.
func (a *Ad) Cover(fallback string) string {
	if len(a.Images) > 0 && a.Images[0] != "" {
		return a.Images[0]
	}
	return fallback
}

// ContactStatus is the review state of a ContactSubmission.
type ContactStatus string

const (
	ContactPending  ContactStatus = "pending"
	ContactReviewed ContactStatus = "reviewed"
)

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID          string        `db:"id"`
	Name        string        `db:"name"`
	Subject     string        `db:"subject"`
	Description string        `db:"description"`
	SubmittedAt time.Time     `db:"submitted_at"`
	Status      ContactStatus `db:"status"`
}
