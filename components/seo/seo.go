// components/seo/seo.go
//
// Crawler files: /sitemap.xml and /robots.txt.
//
// The sitemap reads approved ads on every request and is not page cached:
// a degraded document (store down, static URLs only) must not outlive the
// outage.  Healthy responses carry a one-hour Cache-Control so CDNs absorb
// crawler traffic instead.

package seo

import (
	"bytes"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/escortde/internal/component"
	"github.com/yanizio/escortde/internal/sitemap"
)

// Component serves the crawler files.
type Component struct {
	d *component.Deps
}

// New builds the component.
func New(d *component.Deps) (component.Component, error) {
	return &Component{d: d}, nil
}

func init() { component.Register("seo", New) }

// Name returns the canonical component key.
func (c *Component) Name() string { return "seo" }

// Routes adds the crawler files.
func (c *Component) Routes(r chi.Router) {
	r.Get("/sitemap.xml", c.sitemap)
	r.Get("/robots.txt", c.robots)
}

func (c *Component) sitemap(w http.ResponseWriter, r *http.Request) {
	b := sitemap.Builder{Ads: c.d.Store, BaseURL: c.d.Site().BaseURL, Now: c.d.Now}
	urls, degraded := b.Build(r.Context())

	var buf bytes.Buffer
	if err := sitemap.WriteXML(&buf, urls); err != nil {
		zap.L().Error("encode sitemap", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if degraded {
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}
	_, _ = buf.WriteTo(w)
}

func (c *Component) robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, sitemap.Robots(c.d.Site().BaseURL, c.d.Site().AdminPath, c.d.AllowIndexing))
}
