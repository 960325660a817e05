// internal/routing/slug.go
//
// Gender ⇄ URL segment codec.
//
// Canonical segments are female, male, and trans.  Two vocabularies from
// earlier URL schemes are still decoded:
//
//   - girls → female, guys → male   (aliases, redirected to canonical)
//   - luxury, webcam                (retired categories, decode to nothing)
//
// Retired segments are still recognised as "a gender position" so the
// country-first rewrite never mistakes them for a country.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package routing

import (
	"strings"

	"github.com/yanizio/escortde/internal/ad"
)

// defaultGender is inserted in front of country-first paths.
const defaultGender = ad.Female

var (
	genderSlugs = map[ad.Gender]string{
		ad.Female: "female",
		ad.Male:   "male",
		ad.Trans:  "trans",
	}

	aliasSlugs = map[string]ad.Gender{
		"girls": ad.Female,
		"guys":  ad.Male,
	}

	retiredSlugs = map[string]struct{}{
		"luxury": {},
		"webcam": {},
	}
)

// GenderToSlug returns the canonical segment for g, or "" when g is a
// retired category with no public URL.
func GenderToSlug(g ad.Gender) string { return genderSlugs[g] }

// SlugToGender decodes canonical and alias segments.  ok is false for
// retired and unknown segments.
func SlugToGender(seg string) (g ad.Gender, ok bool) {
	for gg, s := range genderSlugs {
		if s == seg {
			return gg, true
		}
	}
	if gg, hit := aliasSlugs[seg]; hit {
		return gg, true
	}
	return "", false
}

// IsGenderSegment reports whether seg occupies the gender position of an
// /escorts path in any vocabulary, current or historical.
func IsGenderSegment(seg string) bool {
	if _, ok := SlugToGender(seg); ok {
		return true
	}
	_, ok := retiredSlugs[seg]
	return ok
}

// isLegacyRoot reports whether seg was a top-level gender root in the old
// /{gender}/{country}/{city} scheme.
func isLegacyRoot(seg string) bool {
	_, ok := SlugToGender(strings.ToLower(seg))
	return ok
}
