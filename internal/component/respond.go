package component

import (
	"net/http"
	"strings"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/head"
	"github.com/yanizio/escortde/internal/metrics"
	"github.com/yanizio/escortde/internal/routing"
	"github.com/yanizio/escortde/internal/view"
)

// Nav builds the gender navigation with active marked.
func Nav(active ad.Gender) []view.NavLink {
	out := make([]view.NavLink, 0, len(ad.CurrentGenders))
	for _, g := range ad.CurrentGenders {
		out = append(out, view.NavLink{
			Label:  g.Label(),
			Href:   routing.BuildLandingPath(g, "", ""),
			Active: g == active,
		})
	}
	return out
}

// Abs turns a root-relative path into an absolute URL on the site.
func (d *Deps) Abs(path string) string {
	return strings.TrimRight(d.Site().BaseURL, "/") + path
}

// NotFound renders the non-indexable 404 page and counts reason.
func (d *Deps) NotFound(w http.ResponseWriter, reason string) {
	metrics.NotFoundTotal.WithLabelValues(reason).Inc()
	p := d.Views.NewPage(nil)
	p.Head.SetTitle("Page not found | " + d.Site().Name)
	p.Head.Robots(head.NoIndex)
	p.Nav = Nav("")
	d.Views.Render(w, http.StatusNotFound, "notfound", p)
}

// Redirect answers with a permanent redirect that keeps the method.
func Redirect(w http.ResponseWriter, r *http.Request, path, rule string) {
	metrics.RedirectsTotal.WithLabelValues(rule).Inc()
	loc := path
	if r.URL.RawQuery != "" {
		loc += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, loc, http.StatusPermanentRedirect)
}

// Private marks a response as never cacheable and never indexable.
func Private(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Robots-Tag", head.NoIndex)
}
