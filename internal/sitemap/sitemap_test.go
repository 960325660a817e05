package sitemap

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/store"
)

func builder(m *store.Memory) *Builder {
	return &Builder{
		Ads:     m,
		BaseURL: "https://escort.de/",
		Now:     func() time.Time { return time.Date(2025, 1, 2, 3, 0, 0, 0, time.UTC) },
	}
}

func locs(urls []URL) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		out = append(out, u.Loc)
	}
	return out
}

func TestBuildApprovedOnly(t *testing.T) {
	pid := int64(9)
	m := store.NewMemory(
		ad.Ad{ID: "a", PublicID: &pid, Gender: ad.Female, City: "München", Country: "Germany", Status: ad.Approved,
			SubmittedAt: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
		ad.Ad{ID: "b", Gender: ad.Female, City: "Berlin", Country: "Germany", Status: ad.Approved},
		ad.Ad{ID: "p", Gender: ad.Male, City: "Wien", Country: "Austria", Status: ad.Pending},
		ad.Ad{ID: "w", Gender: ad.Webcam, City: "Basel", Country: "Switzerland", Status: ad.Approved},
	)

	urls, degraded := builder(m).Build(context.Background())
	require.False(t, degraded)
	got := locs(urls)

	for _, want := range []string{
		"https://escort.de/",
		"https://escort.de/blog/why-book-germany-escorts-from-escort-de",
		"https://escort.de/escorts/female",
		"https://escort.de/escorts/female/germany",
		"https://escort.de/escorts/female/germany/munchen",
		"https://escort.de/escorts/female/germany/berlin",
		"https://escort.de/escorts/female/germany/munchen/9",
		"https://escort.de/escorts/female/germany/berlin/b",
	} {
		assert.Contains(t, got, want)
	}
	for _, u := range got {
		assert.NotContains(t, u, "/escorts/male", "pending ads stay out")
		assert.NotContains(t, u, "/escorts/female/switzerland", "retired genders stay out")
		assert.NotContains(t, u, "/ad/")
	}

	var female int
	for _, u := range got {
		if u == "https://escort.de/escorts/female" {
			female++
		}
	}
	assert.Equal(t, 1, female, "landing URLs are deduplicated")

	for _, u := range urls {
		if u.Loc == "https://escort.de/escorts/female/germany/munchen/9" {
			assert.Equal(t, "2024-05-06", u.LastMod)
			assert.Equal(t, "weekly", u.ChangeFreq)
			assert.Equal(t, 0.8, u.Priority)
		}
	}
}

func TestBuildStoreFailureKeepsStatic(t *testing.T) {
	m := store.NewMemory()
	m.FailWith(errors.New("timeout"))

	urls, degraded := builder(m).Build(context.Background())
	assert.True(t, degraded)
	assert.Contains(t, locs(urls), "https://escort.de/contact")
	for _, u := range urls {
		assert.NotContains(t, u.Loc, "/escorts/")
	}
}

func TestWriteXML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, []URL{{Loc: "https://escort.de/?a=1&b=2", Priority: 1}}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, out, "<loc>https://escort.de/?a=1&amp;b=2</loc>")
}

func TestRobots(t *testing.T) {
	blocked := Robots("https://escort.de/", "/adm2211", false)
	assert.Contains(t, blocked, "Disallow: /\n")
	assert.Contains(t, blocked, "Sitemap: https://escort.de/sitemap.xml")

	open := Robots("https://escort.de", "/adm2211", true)
	assert.Contains(t, open, "Allow: /\n")
	assert.Contains(t, open, "Disallow: /adm2211\n")
}
