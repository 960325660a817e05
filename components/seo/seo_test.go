package seo

import (
	"encoding/xml"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/component/componenttest"
)

type urlset struct {
	URLs []struct {
		Loc     string `xml:"loc"`
		LastMod string `xml:"lastmod"`
	} `xml:"url"`
}

func locs(t *testing.T, body string) []string {
	t.Helper()
	var set urlset
	require.NoError(t, xml.Unmarshal([]byte(body), &set))
	out := make([]string, 0, len(set.URLs))
	for _, u := range set.URLs {
		out = append(out, u.Loc)
	}
	return out
}

func TestSitemap(t *testing.T) {
	submitted := time.Date(2025, 2, 14, 9, 0, 0, 0, time.UTC)
	h := componenttest.New(t,
		ad.Ad{ID: "a1", PublicID: componenttest.Int64(3), Name: "Mia", Gender: ad.Female,
			City: "Zürich", Country: "Switzerland", Status: ad.Approved, SubmittedAt: submitted},
		ad.Ad{ID: "a2", Name: "Noa", Gender: ad.Female,
			City: "Genève", Country: "Switzerland", Status: ad.Pending, SubmittedAt: submitted},
		ad.Ad{ID: "a3", Name: "Ola", Gender: ad.Webcam,
			City: "Bern", Country: "Switzerland", Status: ad.Approved, SubmittedAt: submitted},
	)
	h.Deps.Now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	h.Mount(t, New)

	rr := h.Get("/sitemap.xml")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "application/xml"))
	assert.Equal(t, "public, max-age=3600", rr.Header().Get("Cache-Control"))

	got := locs(t, rr.Body.String())
	assert.Contains(t, got, "https://example.com/")
	assert.Contains(t, got, "https://example.com/blog")
	assert.Contains(t, got, "https://example.com/escorts/female/switzerland")
	assert.Contains(t, got, "https://example.com/escorts/female/switzerland/zurich")
	assert.Contains(t, got, "https://example.com/escorts/female/switzerland/zurich/3")
	for _, l := range got {
		assert.NotContains(t, l, "geneve", "pending ads stay out")
		assert.NotContains(t, l, "bern", "retired categories stay out")
	}
}

func TestSitemapDegraded(t *testing.T) {
	h := componenttest.New(t)
	h.Mount(t, New)
	h.Store.FailWith(assert.AnError)

	rr := h.Get("/sitemap.xml")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	got := locs(t, rr.Body.String())
	assert.Contains(t, got, "https://example.com/contact")
	for _, l := range got {
		assert.NotContains(t, l, "/escorts/")
	}
}

func TestRobots(t *testing.T) {
	h := componenttest.New(t)
	h.Mount(t, New)

	rr := h.Get("/robots.txt")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "Disallow: /\n")
	assert.Contains(t, rr.Body.String(), "Sitemap: https://example.com/sitemap.xml")

	h.Deps.AllowIndexing = true
	body := h.Get("/robots.txt").Body.String()
	assert.Contains(t, body, "Allow: /\n")
	assert.Contains(t, body, "Disallow: "+componenttest.AdminPath+"\n")
}
