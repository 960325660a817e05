// internal/listing/resolver.go
//
// Listing Resolver: route parameters → filtered, ordered approved ads.
//
// Workflow
// --------
//  1. The caller decodes the gender segment (routing.DecodeGender); an
//     undecodable gender never reaches the resolver.
//  2. The country slug is turned into a display title with UnslugifyTitle
//     and pushed to the store as a case-insensitive prefix match.
//  3. With a city slug the store cannot filter exactly (stored names carry
//     accents), so the resolver over-fetches up to CityScanLimit rows and
//     keeps ads whose Slugify(city) equals the requested slug.
//  4. Without a city, PageLimit rows are requested directly.
//  5. The facet query lists every sibling city for the gender + country
//     pair regardless of the requested city.
//
// Store errors are logged, counted, and collapsed into an empty Listing
// with Degraded set.  Public pages render "no results" in that case.
//
// Notes
// -----
// • Unknown countries and cities are not errors; they yield zero results.
// • City is best-effort when nothing matched (CityVerified == false).
// • Oxford commas, two spaces after periods.

package listing

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/metrics"
	"github.com/yanizio/escortde/internal/slug"
	"github.com/yanizio/escortde/internal/store"
)

// Row caps for the two query shapes.
const (
	CityScanLimit = 5000
	PageLimit     = 500
)

// Query is a decoded listing request.
type Query struct {
	Gender      ad.Gender
	CountrySlug string
	CitySlug    string
}

// CityFacet is one entry of the sibling-city navigation.
type CityFacet struct {
	Name  string
	Slug  string
	Count int
}

// Listing is the resolved page model.
type Listing struct {
	Query

	Country      string
	City         string
	CityVerified bool

	Ads      []ad.Ad
	Cities   []CityFacet
	Degraded bool
}

// Empty reports whether no ad matched.
func (l *Listing) Empty() bool { return len(l.Ads) == 0 }

// Resolver reads approved ads from an AdStore.
type Resolver struct {
	Ads store.AdStore
}

// New returns a Resolver over s.
func New(s store.AdStore) *Resolver { return &Resolver{Ads: s} }

// Resolve runs the listing algorithm for q.
func (r *Resolver) Resolve(ctx context.Context, q Query) Listing {
	out := Listing{Query: q}
	if q.CountrySlug != "" {
		out.Country = slug.UnslugifyTitle(q.CountrySlug)
	}
	metrics.ListingRequestsTotal.WithLabelValues(kindOf(q)).Inc()

	f := store.Filter{Gender: q.Gender, Country: out.Country, Limit: PageLimit}
	if q.CitySlug != "" && q.CountrySlug != "" {
		f.Limit = CityScanLimit
	}

	ads, err := r.Ads.ListApproved(ctx, f)
	if err != nil {
		r.storeFailed("list_approved", err, q)
		out.Degraded = true
		ads = nil
	}

	if q.CitySlug != "" && q.CountrySlug != "" {
		ads = filterCity(ads, q.CitySlug)
		out.City = slug.UnslugifyTitle(q.CitySlug)
		if len(ads) > 0 {
			out.City = ads[0].City
			out.CityVerified = true
		}
	}
	if len(ads) > 0 && q.CountrySlug != "" {
		out.Country = ads[0].Country
	}
	out.Ads = ads

	if q.CountrySlug != "" && !out.Degraded {
		cities, err := r.Ads.ApprovedCities(ctx, q.Gender, slug.UnslugifyTitle(q.CountrySlug))
		if err != nil {
			r.storeFailed("approved_cities", err, q)
			out.Degraded = true
		} else {
			out.Cities = Facets(cities)
		}
	}

	if out.Empty() {
		metrics.ListingResultsEmptyTotal.Inc()
	}
	return out
}

// Home returns the newest approved ads of every gender.
func (r *Resolver) Home(ctx context.Context) Listing {
	metrics.ListingRequestsTotal.WithLabelValues("home").Inc()

	var out Listing
	ads, err := r.Ads.ListApproved(ctx, store.Filter{Limit: PageLimit})
	if err != nil {
		r.storeFailed("list_approved", err, Query{})
		out.Degraded = true
		return out
	}
	out.Ads = ads
	return out
}

// FindAd resolves ident against the public-id space first when it is
// numeric, then against the opaque id space.  Only approved ads are
// returned.
func (r *Resolver) FindAd(ctx context.Context, ident string) (*ad.Ad, bool) {
	if ident == "" {
		return nil, false
	}
	if n, err := strconv.ParseInt(ident, 10, 64); err == nil && n > 0 {
		a, err := r.Ads.GetByPublicID(ctx, n)
		switch {
		case err == nil:
			return visible(a)
		case !errors.Is(err, store.ErrNotFound):
			r.storeFailed("get_by_public_id", err, Query{})
			return nil, false
		}
	}

	a, err := r.Ads.GetByID(ctx, ident)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.storeFailed("get_by_id", err, Query{})
		}
		return nil, false
	}
	return visible(a)
}

// Facets groups raw city names by slug.  Each facet takes the most common
// spelling as its display name and the list is sorted by that name.
func Facets(cities []string) []CityFacet {
	type bucket struct {
		spellings map[string]int
		total     int
	}
	buckets := map[string]*bucket{}
	for _, c := range cities {
		s := slug.Slugify(c)
		if s == "" {
			continue
		}
		b := buckets[s]
		if b == nil {
			b = &bucket{spellings: map[string]int{}}
			buckets[s] = b
		}
		b.spellings[c]++
		b.total++
	}

	out := make([]CityFacet, 0, len(buckets))
	for s, b := range buckets {
		out = append(out, CityFacet{Name: preferred(b.spellings), Slug: s, Count: b.total})
	}

	col := collate.New(language.German)
	sort.Slice(out, func(i, j int) bool {
		if c := col.CompareString(out[i].Name, out[j].Name); c != 0 {
			return c < 0
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func filterCity(ads []ad.Ad, citySlug string) []ad.Ad {
	out := ads[:0:0]
	for _, a := range ads {
		if slug.Slugify(a.City) == citySlug {
			out = append(out, a)
		}
	}
	return out
}

func preferred(spellings map[string]int) string {
	best, n := "", -1
	for s, c := range spellings {
		if c > n || (c == n && s < best) {
			best, n = s, c
		}
	}
	return best
}

func visible(a *ad.Ad) (*ad.Ad, bool) {
	if !a.Public() {
		return nil, false
	}
	return a, true
}

func kindOf(q Query) string {
	switch {
	case q.CitySlug != "" && q.CountrySlug != "":
		return "city"
	case q.CountrySlug != "":
		return "country"
	}
	return "gender"
}

func (r *Resolver) storeFailed(op string, err error, q Query) {
	metrics.StoreErrorsTotal.WithLabelValues(op).Inc()
	zap.L().Error("listing store call failed",
		zap.String("op", op),
		zap.String("gender", string(q.Gender)),
		zap.String("country", q.CountrySlug),
		zap.String("city", q.CitySlug),
		zap.Error(err))
}
