package listing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/store"
)

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func mk(id string, g ad.Gender, st ad.Status, city, country string, minutes int) ad.Ad {
	return ad.Ad{
		ID: id, Name: id, Gender: g, Status: st, City: city, Country: country,
		SubmittedAt: base.Add(time.Duration(minutes) * time.Minute),
	}
}

func fixture() *store.Memory {
	return store.NewMemory(
		mk("muc", ad.Female, ad.Approved, "München", "Germany", 3),
		mk("ber", ad.Female, ad.Approved, "Berlin", "Germany", 2),
		mk("ber2", ad.Female, ad.Approved, "berlin", "Germany", 1),
		mk("pend", ad.Female, ad.Pending, "München", "Germany", 4),
		mk("male", ad.Male, ad.Approved, "München", "Germany", 5),
		mk("zrh", ad.Female, ad.Approved, "Zürich", "Switzerland", 6),
	)
}

func TestResolveAccentInsensitiveCity(t *testing.T) {
	r := New(fixture())

	l := r.Resolve(context.Background(), Query{Gender: ad.Female, CountrySlug: "germany", CitySlug: "munchen"})
	require.Len(t, l.Ads, 1)
	assert.Equal(t, "muc", l.Ads[0].ID)
	assert.Equal(t, "München", l.City)
	assert.True(t, l.CityVerified)
	assert.Equal(t, "Germany", l.Country)

	l = r.Resolve(context.Background(), Query{Gender: ad.Female, CountrySlug: "germany", CitySlug: "berlin"})
	require.Len(t, l.Ads, 2)
	for _, a := range l.Ads {
		assert.NotEqual(t, "muc", a.ID)
	}
}

func TestResolveFacetsIgnoreRequestedCity(t *testing.T) {
	r := New(fixture())

	l := r.Resolve(context.Background(), Query{Gender: ad.Female, CountrySlug: "germany", CitySlug: "munchen"})
	assert.Equal(t, []CityFacet{
		{Name: "Berlin", Slug: "berlin", Count: 2},
		{Name: "München", Slug: "munchen", Count: 1},
	}, l.Cities)
}

func TestResolveUnknownCityFallsBackToTitle(t *testing.T) {
	r := New(fixture())

	l := r.Resolve(context.Background(), Query{Gender: ad.Female, CountrySlug: "germany", CitySlug: "bad-homburg"})
	assert.Empty(t, l.Ads)
	assert.Equal(t, "Bad Homburg", l.City)
	assert.False(t, l.CityVerified)
	assert.False(t, l.Degraded)
}

func TestResolveUnknownCountryIsEmptyNotError(t *testing.T) {
	r := New(fixture())

	l := r.Resolve(context.Background(), Query{Gender: ad.Female, CountrySlug: "atlantis"})
	assert.Empty(t, l.Ads)
	assert.Empty(t, l.Cities)
	assert.Equal(t, "Atlantis", l.Country)
	assert.False(t, l.Degraded)
}

func TestResolveGenderOnlyNewestFirst(t *testing.T) {
	r := New(fixture())

	l := r.Resolve(context.Background(), Query{Gender: ad.Female})
	ids := make([]string, 0, len(l.Ads))
	for _, a := range l.Ads {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"zrh", "muc", "ber", "ber2"}, ids)
	assert.Nil(t, l.Cities)
}

func TestResolveStoreFailureDegrades(t *testing.T) {
	m := fixture()
	m.FailWith(errors.New("connection refused"))
	r := New(m)

	l := r.Resolve(context.Background(), Query{Gender: ad.Female, CountrySlug: "germany", CitySlug: "berlin"})
	assert.True(t, l.Degraded)
	assert.Empty(t, l.Ads)
	assert.Empty(t, l.Cities)

	h := r.Home(context.Background())
	assert.True(t, h.Degraded)
}

func TestHomeIncludesEveryGender(t *testing.T) {
	r := New(fixture())
	h := r.Home(context.Background())
	require.Len(t, h.Ads, 5)
	assert.Equal(t, "zrh", h.Ads[0].ID)
	assert.Equal(t, "male", h.Ads[1].ID)
}

func TestFindAdPublicIDFirst(t *testing.T) {
	pid := int64(7)
	a := mk("7", ad.Female, ad.Approved, "Wien", "Austria", 0)
	b := mk("other", ad.Female, ad.Approved, "Graz", "Austria", 0)
	b.PublicID = &pid
	r := New(store.NewMemory(a, b))

	got, ok := r.FindAd(context.Background(), "7")
	require.True(t, ok)
	assert.Equal(t, "other", got.ID, "public id wins over opaque id")

	got, ok = r.FindAd(context.Background(), "other")
	require.True(t, ok)
	assert.Equal(t, "Graz", got.City)
}

func TestFindAdFallsBackToOpaqueID(t *testing.T) {
	r := New(store.NewMemory(mk("12345", ad.Female, ad.Approved, "Wien", "Austria", 0)))

	got, ok := r.FindAd(context.Background(), "12345")
	require.True(t, ok)
	assert.Equal(t, "12345", got.ID)
}

func TestFindAdHidesNonPublic(t *testing.T) {
	r := New(fixture())

	_, ok := r.FindAd(context.Background(), "pend")
	assert.False(t, ok)
	_, ok = r.FindAd(context.Background(), "missing")
	assert.False(t, ok)
	_, ok = r.FindAd(context.Background(), "")
	assert.False(t, ok)
}

func TestFacetsPreferMostCommonSpelling(t *testing.T) {
	got := Facets([]string{"Zurich", "Zürich", "Zürich", "Ägeri", "Basel", ""})
	assert.Equal(t, []CityFacet{
		{Name: "Ägeri", Slug: "ageri", Count: 1},
		{Name: "Basel", Slug: "basel", Count: 1},
		{Name: "Zürich", Slug: "zurich", Count: 3},
	}, got)
}
