// internal/routing/path.go
//
// Canonical path builder.
//
//	BuildLandingPath("", …)                        → /
//	BuildLandingPath(female, "", "")               → /escorts/female
//	BuildLandingPath(female, "Germany", "")        → /escorts/female/germany
//	BuildLandingPath(female, "Germany", "München") → /escorts/female/germany/munchen
//	AdPath(ad)                                     → /escorts/{g}/{country}/{city}/{ident}
//
// Route handlers, <link rel="canonical">, the sitemap, and cross-links all
// go through these two functions, so they cannot drift apart.

package routing

import (
	"strings"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/slug"
)

// EscortsRoot is the first segment of every listing path.
const EscortsRoot = "escorts"

// BuildLandingPath composes the listing path for the given filters.  A city
// without a country is ignored.
func BuildLandingPath(g ad.Gender, country, city string) string {
	gs := GenderToSlug(g)
	if gs == "" {
		return "/"
	}
	cs := slug.Slugify(country)
	if cs == "" {
		return BuildPath(EscortsRoot, gs)
	}
	ts := slug.Slugify(city)
	if ts == "" {
		return BuildPath(EscortsRoot, gs, cs)
	}
	return BuildPath(EscortsRoot, gs, cs, ts)
}

// AdPath returns the canonical detail path for a.  ok is false when the
// ad's gender is retired or its location does not slugify.
func AdPath(a *ad.Ad) (string, bool) {
	gs := GenderToSlug(a.Gender)
	cs := slug.Slugify(a.Country)
	ts := slug.Slugify(a.City)
	if gs == "" || cs == "" || ts == "" {
		return "", false
	}
	return BuildPath(EscortsRoot, gs, cs, ts, a.Ident()), true
}

// BuildPath joins segments with a single "/" and guarantees exactly one
// leading slash.  Empty segments are skipped.
func BuildPath(segs ...string) string {
	var b strings.Builder
	for _, s := range segs {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(s)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
