// internal/slug/slug.go
//
// Text ⇄ slug codec for country and city names.
//
// Rules (Slugify)
// ---------------
//  1. Trim and lower-case.
//  2. NFKD-decompose and drop combining marks, so "München" → "munchen".
//  3. Map the German sharp-S to "ss" and "&" to " and ".
//  4. Convert any run of non-[a-z0-9] characters to one "-".
//  5. Trim leading / trailing "-".
//
// Slugify is idempotent and returns "" for empty input; callers treat ""
// as "no filter".  UnslugifyTitle is the lossy reverse used only for
// fallback display titles, never for identity comparison.
//
// Notes
// -----
// • Decomposition uses golang.org/x/text so non-Latin marks are handled
//   the same way as the Latin ones.
// • Oxford commas, two spaces after periods.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var replacer = strings.NewReplacer("ß", "ss", "&", " and ")

// Slugify converts a display string into a lower-kebab ASCII slug.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return ""
	}

	// transform.Chain is stateful, so build one per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}
	s = replacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	lastWasDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash {
				b.WriteByte('-')
				lastWasDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// UnslugifyTitle turns "czech-republic" into "Czech Republic".  Diacritics
// and inner capitals are not recoverable.
func UnslugifyTitle(s string) string {
	s = strings.Join(strings.Fields(strings.ReplaceAll(s, "-", " ")), " ")
	if s == "" {
		return ""
	}
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// IsCanonical reports whether seg is already in the form Slugify would
// produce.
func IsCanonical(seg string) bool {
	return seg != "" && Slugify(seg) == seg
}
