// internal/ad/countries.go
//
// Supported-country allow-list.
//
// The navigation and the submission form only offer these countries.  The
// listing resolver does not consult this list; country values on stored
// ads are free-form display strings.
package ad

import (
	"strings"

	"github.com/biter777/countries"

	"github.com/yanizio/escortde/internal/slug"
)

// Country is one entry of the allow-list.
type Country struct {
	Name string // display name as stored on ads
	Slug string
	ISO2 string // lower-case alpha-2
}

// FlagURL returns a 40px flag image for the nav.
func (c Country) FlagURL() string { return "https://flagcdn.com/w40/" + c.ISO2 + ".png" }

var supported = func() []Country {
	table := []struct {
		name string
		code countries.CountryCode
	}{
		{"Germany", countries.DE},
		{"Austria", countries.AT},
		{"Switzerland", countries.CH},
		{"Czech Republic", countries.CZ},
		{"Netherlands", countries.NL},
		{"Belgium", countries.BE},
		{"France", countries.FR},
		{"Poland", countries.PL},
		{"Denmark", countries.DK},
		{"Luxembourg", countries.LU},
	}
	out := make([]Country, 0, len(table))
	for _, e := range table {
		out = append(out, Country{
			Name: e.name,
			Slug: slug.Slugify(e.name),
			ISO2: strings.ToLower(e.code.Alpha2()),
		})
	}
	return out
}()

// SupportedCountries returns the allow-list in nav order.
func SupportedCountries() []Country {
	out := make([]Country, len(supported))
	copy(out, supported)
	return out
}

// LookupCountry matches a display name, slug, alpha-2 code, or any name the
// countries package knows (e.g. "Czechia") against the allow-list.
func LookupCountry(s string) (Country, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Country{}, false
	}
	want := slug.Slugify(s)
	for _, c := range supported {
		if c.Slug == want || strings.EqualFold(c.ISO2, s) {
			return c, true
		}
	}
	if code := countries.ByName(s); code != countries.Unknown {
		iso := strings.ToLower(code.Alpha2())
		for _, c := range supported {
			if c.ISO2 == iso {
				return c, true
			}
		}
	}
	return Country{}, false
}
