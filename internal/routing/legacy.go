// internal/routing/legacy.go
//
// Legacy URL rewrite table and middleware.
//
// Context
// -------
// Three URL generations have been live: /{girls|guys}/…, /{gender}/…, and
// the current /escorts/{gender}/{country}/{city}/{id}.  Blog posts also
// link country-first shapes such as /escorts/germany.  Instead of keeping a
// handler per generation, every old shape is listed here as one rule and
// the middleware answers with a single 308 to the final canonical shape.
//
// Rules run in order over the path segments; each may rewrite them.  When
// at least one rule fired, the client is redirected once, query string
// preserved.  Rules never touch the ad-id segment.
//
// Workflow
// --------
//   1. cmd/escortd wraps the router with routing.Legacy.
//   2. GET / HEAD requests are matched against Rules.
//   3. Everything else falls through untouched.
//
// Notes
// -----
// • /ad/{id} is not here.  It needs a store lookup and lives in
//   components/legacy.
// • Oxford commas, two spaces after periods.

package routing

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/escortde/internal/metrics"
	"github.com/yanizio/escortde/internal/slug"
)

// Rule rewrites path segments.  ok is true when the rule changed them.
type Rule struct {
	Name    string
	Rewrite func(segs []string) (out []string, ok bool)
}

// Rules is the ordered legacy table.
var Rules = []Rule{
	{Name: "root-gender", Rewrite: rootGender},
	{Name: "gender-case", Rewrite: genderCase},
	{Name: "gender-alias", Rewrite: genderAlias},
	{Name: "country-first", Rewrite: countryFirst},
	{Name: "segment-case", Rewrite: segmentCase},
}

// /girls/germany → /escorts/girls/germany (alias resolved by a later rule).
func rootGender(segs []string) ([]string, bool) {
	if len(segs) == 0 || !isLegacyRoot(segs[0]) {
		return segs, false
	}
	return append([]string{EscortsRoot}, segs...), true
}

// /escorts/Female → /escorts/female.
func genderCase(segs []string) ([]string, bool) {
	if !isEscorts(segs) {
		return segs, false
	}
	lower := strings.ToLower(segs[1])
	if lower == segs[1] || !IsGenderSegment(lower) {
		return segs, false
	}
	return with(segs, 1, lower), true
}

// /escorts/guys/… → /escorts/male/….
func genderAlias(segs []string) ([]string, bool) {
	if !isEscorts(segs) {
		return segs, false
	}
	g, ok := aliasSlugs[segs[1]]
	if !ok {
		return segs, false
	}
	return with(segs, 1, GenderToSlug(g)), true
}

// /escorts/switzerland/zurich → /escorts/female/switzerland/zurich.
func countryFirst(segs []string) ([]string, bool) {
	if !isEscorts(segs) || IsGenderSegment(segs[1]) {
		return segs, false
	}
	out := make([]string, 0, len(segs)+1)
	out = append(out, EscortsRoot, GenderToSlug(defaultGender))
	out = append(out, segs[1:]...)
	return out, true
}

// /escorts/female/Germany/München → /escorts/female/germany/munchen.
func segmentCase(segs []string) ([]string, bool) {
	if !isEscorts(segs) {
		return segs, false
	}
	changed := false
	for i := 2; i < len(segs) && i <= 3; i++ {
		if slug.IsCanonical(segs[i]) {
			continue
		}
		if s := slug.Slugify(segs[i]); s != "" {
			segs = with(segs, i, s)
			changed = true
		}
	}
	return segs, changed
}

func isEscorts(segs []string) bool { return len(segs) >= 2 && segs[0] == EscortsRoot }

// with returns a copy of segs with segs[i] = v.
func with(segs []string, i int, v string) []string {
	out := make([]string, len(segs))
	copy(out, segs)
	out[i] = v
	return out
}

// Canonicalize runs the table over p.  It returns the rewritten path and
// the names of the rules that fired; fired is empty when p is canonical.
func Canonicalize(p string) (string, []string) {
	var fired []string
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
		fired = append(fired, "trailing-slash")
	}

	segs := strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
	for _, rule := range Rules {
		if out, ok := rule.Rewrite(segs); ok {
			segs = out
			fired = append(fired, rule.Name)
		}
	}
	if len(fired) == 0 {
		return p, nil
	}
	return BuildPath(segs...), fired
}

// Legacy redirects any legacy shape to its canonical form with a 308.
func Legacy(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		target, fired := Canonicalize(r.URL.Path)
		if len(fired) == 0 || target == r.URL.Path {
			next.ServeHTTP(w, r)
			return
		}

		loc := (&url.URL{Path: target, RawQuery: r.URL.RawQuery}).String()
		for _, name := range fired {
			metrics.RedirectsTotal.WithLabelValues(name).Inc()
		}
		zap.L().Debug("legacy redirect",
			zap.String("from", r.URL.Path),
			zap.String("to", loc),
			zap.Strings("rules", fired))

		http.Redirect(w, r, loc, http.StatusPermanentRedirect)
	})
}
