package listing

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/component/componenttest"
	"github.com/yanizio/escortde/internal/requestinfo"
)

func seed() []ad.Ad {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []ad.Ad{
		{ID: "a1", PublicID: componenttest.Int64(1), Name: "Anna", Age: "24", Gender: ad.Female,
			City: "München", Country: "Germany", Phone: "1", Status: ad.Approved, SubmittedAt: t0,
			Description: "Friendly and discreet companion based in Munich, available for dinner dates."},
		{ID: "a2", PublicID: componenttest.Int64(2), Name: "Berta", Age: "31", Gender: ad.Female,
			City: "Berlin", Country: "Germany", Phone: "2", Status: ad.Approved, SubmittedAt: t0.Add(time.Hour)},
		{ID: "a3", PublicID: componenttest.Int64(3), Name: "Carl", Age: "29", Gender: ad.Male,
			City: "Berlin", Country: "Germany", Phone: "3", Status: ad.Approved, SubmittedAt: t0},
		{ID: "a4", PublicID: componenttest.Int64(4), Name: "Dora", Age: "22", Gender: ad.Female,
			City: "Hamburg", Country: "Germany", Phone: "4", Status: ad.Pending, SubmittedAt: t0},
		{ID: "ad_legacy_1", Name: "Eva", Age: "27", Gender: ad.LuxuryEscort,
			City: "Zürich", Country: "Switzerland", Phone: "5", Status: ad.Approved, SubmittedAt: t0},
	}
}

func harness(t *testing.T) *componenttest.Harness {
	h := componenttest.New(t, seed()...)
	h.Mount(t, New)
	return h
}

func TestHome(t *testing.T) {
	h := harness(t)
	rr := h.Get("/")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := componenttest.Doc(t, rr)
	assert.Equal(t, 3, doc.Find("ul.cards li.card").Length(), "retired genders and pending ads are hidden")
	assert.Equal(t, componenttest.BaseURL+"/", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	assert.Contains(t, doc.Find(`script[type="application/ld+json"]`).Text(), `"WebSite"`)
}

func TestHomePreselectsVisitorCountry(t *testing.T) {
	h := harness(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(requestinfo.NewContext(req.Context(), &requestinfo.Info{CountryISO: "CH"}))
	rr := h.Do(req)
	require.Equal(t, http.StatusOK, rr.Code)

	sel := componenttest.Doc(t, rr).Find(".country-nav a.selected")
	assert.Equal(t, "/escorts/female/switzerland", sel.AttrOr("href", ""))
}

func TestHomeLegacyQueryRedirect(t *testing.T) {
	h := harness(t)
	cases := []struct{ in, want string }{
		{"/?gender=girls&country=Germany&city=M%C3%BCnchen", "/escorts/female/germany/munchen"},
		{"/?gender=trans", "/escorts/trans"},
		{"/?country=Switzerland", "/escorts/female/switzerland"},
		{"/?gender=male&city=Basel", "/escorts/male"},
	}
	for _, tc := range cases {
		rr := h.Get(tc.in)
		assert.Equal(t, http.StatusPermanentRedirect, rr.Code, tc.in)
		assert.Equal(t, tc.want, rr.Header().Get("Location"), tc.in)
	}

	rr := h.Get("/?gender=webcam")
	assert.Equal(t, http.StatusOK, rr.Code, "undecodable filters fall back to the home page")
}

func TestCityLandingAccentInsensitive(t *testing.T) {
	h := harness(t)
	rr := h.Get("/escorts/female/germany/munchen")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := componenttest.Doc(t, rr)
	assert.Equal(t, 1, doc.Find("ul.cards li.card").Length())
	assert.Equal(t, "Female Escorts in München, Germany", strings.TrimSpace(doc.Find("h1").Text()))
	assert.Equal(t, "München Escorts, Female Independent Escorts in München, Germany", doc.Find("title").Text())
	assert.Equal(t, componenttest.BaseURL+"/escorts/female/germany/munchen",
		doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))

	// Sibling cities are listed regardless of the requested city.
	assert.Equal(t, 2, doc.Find(".city-nav a").Length())
	assert.Equal(t, "/escorts/female/germany/munchen", doc.Find(".city-nav a.active").AttrOr("href", ""))
}

func TestCountryLanding(t *testing.T) {
	h := harness(t)
	rr := h.Get("/escorts/female/germany")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := componenttest.Doc(t, rr)
	assert.Equal(t, 2, doc.Find("ul.cards li.card").Length())
	assert.Equal(t, "Germany Escorts, Female Independent Escorts in Germany", doc.Find("title").Text())
	assert.Contains(t, doc.Find(`meta[name="description"]`).AttrOr("content", ""), "Browse Female independent escorts in Germany.")
}

func TestGenderLanding(t *testing.T) {
	h := harness(t)
	rr := h.Get("/escorts/male")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := componenttest.Doc(t, rr)
	assert.Equal(t, "Male Escorts, Male Independent Escorts", doc.Find("title").Text())
	assert.Equal(t, 1, doc.Find("ul.cards li.card").Length())
	assert.Equal(t, 10, doc.Find(".country-nav a").Length())
	assert.Equal(t, "/escorts/male", doc.Find(".gender-nav a.active").AttrOr("href", ""))
}

func TestUnknownCityIsEmptyNotError(t *testing.T) {
	h := harness(t)
	rr := h.Get("/escorts/female/germany/atlantis")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := componenttest.Doc(t, rr)
	assert.Equal(t, 0, doc.Find("ul.cards li.card").Length())
	assert.Contains(t, doc.Find(".empty").Text(), "Atlantis")
	assert.Equal(t, "noindex,follow", doc.Find(`meta[name="robots"]`).AttrOr("content", ""))
}

func TestGenderDecoding(t *testing.T) {
	h := harness(t)

	rr := h.Get("/escorts/girls/germany")
	assert.Equal(t, http.StatusPermanentRedirect, rr.Code)
	assert.Equal(t, "/escorts/female/germany", rr.Header().Get("Location"))

	for _, p := range []string{"/escorts/webcam", "/escorts/luxury/germany", "/escorts/robots/germany/berlin/1"} {
		rr := h.Get(p)
		assert.Equal(t, http.StatusNotFound, rr.Code, p)
		assert.Equal(t, "noindex,nofollow",
			componenttest.Doc(t, rr).Find(`meta[name="robots"]`).AttrOr("content", ""), p)
	}
}

func TestDetail(t *testing.T) {
	h := harness(t)
	rr := h.Get("/escorts/female/germany/munchen/1")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := componenttest.Doc(t, rr)
	assert.Equal(t, "Anna", doc.Find("article.profile h1").Text())
	assert.Equal(t, "München Escorts, Female Independent Escort in München, Germany", doc.Find("title").Text())
	ld := doc.Find(`script[type="application/ld+json"]`).Text()
	assert.Contains(t, ld, `"Person"`)
	assert.Contains(t, ld, `"BreadcrumbList"`)
}

func TestDetailRedirectsToCanonical(t *testing.T) {
	h := harness(t)
	want := "/escorts/female/germany/munchen/1"
	for _, in := range []string{
		"/escorts/female/germany/hamburg/1",  // city edited
		"/escorts/female/germany/munchen/a1", // opaque id
		"/escorts/male/germany/munchen/1",    // wrong gender
	} {
		rr := h.Get(in)
		assert.Equal(t, http.StatusPermanentRedirect, rr.Code, in)
		assert.Equal(t, want, rr.Header().Get("Location"), in)
	}
}

func TestDetailNotFound(t *testing.T) {
	h := harness(t)
	for _, p := range []string{
		"/escorts/female/germany/hamburg/4",              // pending
		"/escorts/female/germany/berlin/999",             // missing
		"/escorts/female/switzerland/zurich/ad_legacy_1", // retired gender
	} {
		assert.Equal(t, http.StatusNotFound, h.Get(p).Code, p)
	}
}

func TestStoreFailureRendersEmpty(t *testing.T) {
	h := harness(t)
	h.Store.FailWith(assert.AnError)

	rr := h.Get("/escorts/female/germany")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, componenttest.Doc(t, rr).Find("ul.cards li.card").Length())
}

func TestLandingIsCached(t *testing.T) {
	h := harness(t)
	require.Equal(t, http.StatusOK, h.Get("/escorts/female/germany").Code)
	assert.Equal(t, 1, h.Pages.Len())

	// A 404 is never stored.
	h.Get("/escorts/webcam")
	assert.Equal(t, 1, h.Pages.Len())
}
