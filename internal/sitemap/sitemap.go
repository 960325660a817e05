// internal/sitemap/sitemap.go
//
// sitemap.xml and robots.txt generation.
//
// Workflow
// --------
//  1. Static URLs are always present: home, contact, post-ad, blog index,
//     and every blog post.
//  2. One landing URL per observed gender, gender + country, and
//     gender + country + city among approved ads.  The set is bounded by
//     the approved ads, never a cross-product.
//  3. One canonical detail URL per approved ad, lastmod = submission time.
//
// Every path comes from routing.BuildLandingPath or routing.AdPath, so the
// sitemap never lists a URL the redirect layer would rewrite.  When the
// store fails, only the static URLs are emitted.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package sitemap

import (
	"context"
	"encoding/xml"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/blog"
	"github.com/yanizio/escortde/internal/metrics"
	"github.com/yanizio/escortde/internal/routing"
	"github.com/yanizio/escortde/internal/store"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// MaxApproved bounds the number of ads read for one sitemap.
const MaxApproved = 50000

// URL is one <url> entry.
type URL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Builder assembles the sitemap from approved ads.
type Builder struct {
	Ads     store.AdStore
	BaseURL string
	Now     func() time.Time
}

// Build returns every sitemap entry.  degraded is true when the store call
// failed and only static URLs are present.
func (b *Builder) Build(ctx context.Context) (urls []URL, degraded bool) {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	today := now().UTC().Format("2006-01-02")
	urls = b.static(today)

	ads, err := b.Ads.ListApproved(ctx, store.Filter{Limit: MaxApproved})
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("sitemap").Inc()
		zap.L().Error("sitemap store call failed", zap.Error(err))
		return urls, true
	}

	seen := map[string]struct{}{}
	var landing, details []URL
	for i := range ads {
		a := &ads[i]
		if !a.Public() {
			continue
		}
		for _, p := range landingPaths(a) {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			landing = append(landing, URL{Loc: b.abs(p), LastMod: today, ChangeFreq: "daily", Priority: 0.7})
		}
		if p, ok := routing.AdPath(a); ok {
			details = append(details, URL{
				Loc:        b.abs(p),
				LastMod:    a.SubmittedAt.UTC().Format("2006-01-02"),
				ChangeFreq: "weekly",
				Priority:   0.8,
			})
		}
	}
	urls = append(urls, landing...)
	return append(urls, details...), false
}

// WriteXML renders urls as a sitemap document.
func WriteXML(w io.Writer, urls []URL) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(urlset{Xmlns: xmlns, URLs: urls}); err != nil {
		return err
	}
	return enc.Flush()
}

// Robots returns robots.txt.  Crawling is blocked entirely until
// allowIndexing is set; the admin surface is always disallowed.
func Robots(baseURL, adminPath string, allowIndexing bool) string {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")
	if allowIndexing {
		sb.WriteString("Allow: /\n")
		if adminPath != "" {
			sb.WriteString("Disallow: " + adminPath + "\n")
		}
	} else {
		sb.WriteString("Disallow: /\n")
	}
	sb.WriteString("\nSitemap: " + strings.TrimRight(baseURL, "/") + "/sitemap.xml\n")
	return sb.String()
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func (b *Builder) static(today string) []URL {
	out := []URL{
		{Loc: b.abs("/"), LastMod: today, ChangeFreq: "daily", Priority: 1},
		{Loc: b.abs("/contact"), LastMod: today, ChangeFreq: "monthly", Priority: 0.5},
		{Loc: b.abs("/post-ad"), LastMod: today, ChangeFreq: "monthly", Priority: 0.6},
		{Loc: b.abs("/blog"), LastMod: today, ChangeFreq: "weekly", Priority: 0.5},
	}
	for _, p := range blog.All() {
		out = append(out, URL{
			Loc:        b.abs("/blog/" + p.Slug),
			LastMod:    p.Published.Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   0.5,
		})
	}
	return out
}

// landingPaths lists the gender, country, and city landing pages for a.
// Retired genders yield nothing.
func landingPaths(a *ad.Ad) []string {
	if routing.GenderToSlug(a.Gender) == "" {
		return nil
	}
	out := []string{routing.BuildLandingPath(a.Gender, "", "")}
	if p := routing.BuildLandingPath(a.Gender, a.Country, ""); p != out[0] {
		out = append(out, p)
		if c := routing.BuildLandingPath(a.Gender, a.Country, a.City); c != p {
			out = append(out, c)
		}
	}
	return out
}

func (b *Builder) abs(p string) string {
	base := strings.TrimRight(b.BaseURL, "/")
	if p == "/" {
		return base + "/"
	}
	return base + p
}
