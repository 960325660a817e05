// components/legacy/legacy.go
//
// Old detail links of the form /ad/{id}.
//
// The path-only rewrites live in routing.Legacy.  This one needs the ad's
// gender, country, and city to build its canonical path, so it runs as a
// handler with a store lookup.  Unknown, unapproved, or retired ads get the
// non-indexable 404 page.

package legacy

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/escortde/internal/component"
	"github.com/yanizio/escortde/internal/routing"
)

// Component redirects legacy detail links.
type Component struct {
	d *component.Deps
}

// New builds the component.
func New(d *component.Deps) (component.Component, error) {
	return &Component{d: d}, nil
}

func init() { component.Register("legacy", New) }

// Name returns the canonical component key.
func (c *Component) Name() string { return "legacy" }

// Routes adds GET /ad/{id}.
func (c *Component) Routes(r chi.Router) {
	r.Get("/ad/{id}", c.adByID)
}

func (c *Component) adByID(w http.ResponseWriter, r *http.Request) {
	a, ok := c.d.Listings.FindAd(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		c.d.NotFound(w, "legacy_ad")
		return
	}
	target, ok := routing.AdPath(a)
	if !ok {
		c.d.NotFound(w, "legacy_ad")
		return
	}
	component.Redirect(w, r, target, "legacy-ad")
}
