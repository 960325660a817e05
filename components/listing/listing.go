// components/listing/listing.go
//
// Public browsing pages: home, landing pages, and ad detail.
//
// Routes
// ------
//   GET /                                          home (or legacy ?gender= redirect)
//   GET /escorts/{gender}                          gender landing
//   GET /escorts/{gender}/{country}                country landing
//   GET /escorts/{gender}/{country}/{city}         city landing
//   GET /escorts/{gender}/{country}/{city}/{id}    ad detail
//
// Workflow
// --------
//   1. routing.DecodeGender turns the gender segment into a Decision.
//      NotFound renders the 404 page; Redirecting answers 308.
//   2. listing.Resolver fetches the ads and city facets.
//   3. Title, description, canonical, and JSON-LD are set on the head
//      builder, then the page is rendered.
//   4. For detail pages routing.CheckAd compares the requested path with
//      the ad's canonical path, so stale links redirect.
//
// Every GET here goes through the page cache.  The home page keys on the
// visitor country as well, since it preselects the country nav.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package listing

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/component"
	"github.com/yanizio/escortde/internal/listing"
	"github.com/yanizio/escortde/internal/metrics"
	"github.com/yanizio/escortde/internal/pagecache"
	"github.com/yanizio/escortde/internal/requestinfo"
	"github.com/yanizio/escortde/internal/routing"
)

// Component renders the public browsing pages.
type Component struct {
	d *component.Deps
}

// New builds the component.
func New(d *component.Deps) (component.Component, error) {
	return &Component{d: d}, nil
}

func init() { component.Register("listing", New) }

// Name returns the canonical component key.
func (c *Component) Name() string { return "listing" }

// Routes adds the browsing pages.
func (c *Component) Routes(r chi.Router) {
	r.With(c.d.Cached(homeKey)).Get("/", c.home)
	r.Route("/"+routing.EscortsRoot, func(r chi.Router) {
		r.Use(c.d.Cached(nil))
		r.Get("/{gender}", c.landing)
		r.Get("/{gender}/{country}", c.landing)
		r.Get("/{gender}/{country}/{city}", c.landing)
		r.Get("/{gender}/{country}/{city}/{id}", c.detail)
	})
}

// homeKey adds the visitor country to the URL key.
func homeKey(r *http.Request) string {
	k := pagecache.URLKey(r)
	if info := requestinfo.FromContext(r.Context()); info != nil && info.CountryISO != "" {
		k += "|" + info.CountryISO
	}
	return k
}

/*──────────────────────────── home ────────────────────────────────────────*/

type homeBody struct {
	Ads       []ad.Ad
	Countries []ad.Country
	Selected  ad.Country
}

func (c *Component) home(w http.ResponseWriter, r *http.Request) {
	if target, ok := queryRedirect(r); ok {
		// The filters move into the path, so the query is dropped.
		metrics.RedirectsTotal.WithLabelValues("query-filter").Inc()
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
		return
	}

	res := c.d.Listings.Home(r.Context())
	body := homeBody{Ads: res.Ads, Countries: ad.SupportedCountries()}
	if info := requestinfo.FromContext(r.Context()); info != nil && info.CountryISO != "" {
		body.Selected, _ = ad.LookupCountry(info.CountryISO)
	}

	site := c.d.Site()
	p := c.d.Views.NewPage(body)
	p.Nav = component.Nav("")
	p.Head.SetTitle(site.Name + " | Independent Escorts in Europe")
	p.Head.Description("Browse independent escorts in Germany, Switzerland, Austria, and across Europe.  " +
		"Verified profiles with photos, rates, and contact information.")
	p.Head.Canonical(c.d.Abs("/"))
	p.Head.OpenGraph("title", site.Name)
	p.Head.OpenGraph("image", site.FallbackImage)
	_ = p.Head.JSONLD(websiteLD(site.Name, c.d.Abs("/")))

	c.d.Views.Render(w, http.StatusOK, "home", p)
}

// queryRedirect maps the old ?gender=&country=&city= home filters to the
// landing path.  A country without a usable gender defaults to female, the
// same rule the legacy table applies to country-first paths.
func queryRedirect(r *http.Request) (string, bool) {
	q := r.URL.Query()
	gRaw, country, city := q.Get("gender"), q.Get("country"), q.Get("city")
	if gRaw == "" && country == "" && city == "" {
		return "", false
	}
	g, ok := routing.SlugToGender(gRaw)
	if !ok {
		if country == "" {
			return "", false
		}
		g = ad.Female
	}
	return routing.BuildLandingPath(g, country, city), true
}

/*──────────────────────────── landing ─────────────────────────────────────*/

type crumb struct {
	Label string
	Href  string
}

type landingBody struct {
	Listing   listing.Listing
	Heading   string
	Crumbs    []crumb
	Countries []ad.Country
}

func (c *Component) landing(w http.ResponseWriter, r *http.Request) {
	country, city := chi.URLParam(r, "country"), chi.URLParam(r, "city")

	dec := routing.DecodeGender(chi.URLParam(r, "gender"), country, city)
	switch dec.State {
	case routing.NotFound:
		c.d.NotFound(w, "gender")
		return
	case routing.Redirecting:
		component.Redirect(w, r, dec.Location, "gender-decode")
		return
	}

	res := c.d.Listings.Resolve(r.Context(), listing.Query{
		Gender:      dec.Gender,
		CountrySlug: country,
		CitySlug:    city,
	})

	m := landingMeta(dec.Gender, res.Country, res.City)
	body := landingBody{
		Listing:   res,
		Heading:   m.heading,
		Crumbs:    crumbs(dec.Gender, res.Country, res.City),
		Countries: ad.SupportedCountries(),
	}

	site := c.d.Site()
	canonical := c.d.Abs(routing.BuildLandingPath(dec.Gender, country, city))
	p := c.d.Views.NewPage(body)
	p.Nav = component.Nav(dec.Gender)
	p.Head.SetTitle(m.title)
	p.Head.Description(m.description)
	p.Head.Canonical(canonical)
	p.Head.OpenGraph("title", m.title)
	p.Head.OpenGraph("url", canonical)
	p.Head.OpenGraph("image", site.FallbackImage)
	if res.Empty() {
		p.Head.Robots("noindex,follow")
	}
	_ = p.Head.JSONLD(breadcrumbLD(c.d, body.Crumbs))

	c.d.Views.Render(w, http.StatusOK, "listing", p)
}

func crumbs(g ad.Gender, country, city string) []crumb {
	out := []crumb{
		{Label: "Home", Href: "/"},
		{Label: g.Label() + " Escorts", Href: routing.BuildLandingPath(g, "", "")},
	}
	if country != "" {
		out = append(out, crumb{Label: country, Href: routing.BuildLandingPath(g, country, "")})
	}
	if country != "" && city != "" {
		out = append(out, crumb{Label: city, Href: routing.BuildLandingPath(g, country, city)})
	}
	return out
}

/*──────────────────────────── detail ──────────────────────────────────────*/

type detailBody struct {
	Ad     *ad.Ad
	Crumbs []crumb
}

func (c *Component) detail(w http.ResponseWriter, r *http.Request) {
	country, city, id := chi.URLParam(r, "country"), chi.URLParam(r, "city"), chi.URLParam(r, "id")

	dec := routing.DecodeGender(chi.URLParam(r, "gender"), country, city, id)
	switch dec.State {
	case routing.NotFound:
		c.d.NotFound(w, "gender")
		return
	case routing.Redirecting:
		component.Redirect(w, r, dec.Location, "gender-decode")
		return
	}

	a, ok := c.d.Listings.FindAd(r.Context(), id)
	if !ok {
		c.d.NotFound(w, "ad")
		return
	}

	dec = routing.CheckAd(r.URL.Path, a)
	switch dec.State {
	case routing.NotFound:
		c.d.NotFound(w, "ad_route")
		return
	case routing.Redirecting:
		component.Redirect(w, r, dec.Location, "ad-canonical")
		return
	}

	m := detailMeta(a)
	body := detailBody{
		Ad:     a,
		Crumbs: append(crumbs(a.Gender, a.Country, a.City), crumb{Label: a.Name, Href: r.URL.Path}),
	}

	site := c.d.Site()
	canonical := c.d.Abs(r.URL.Path)
	p := c.d.Views.NewPage(body)
	p.Nav = component.Nav(a.Gender)
	p.Head.SetTitle(m.title)
	p.Head.Description(m.description)
	p.Head.Canonical(canonical)
	p.Head.OpenGraph("type", "profile")
	p.Head.OpenGraph("title", m.title)
	p.Head.OpenGraph("url", canonical)
	p.Head.OpenGraph("image", a.Cover(site.FallbackImage))
	_ = p.Head.JSONLD(personLD(a, canonical, site.FallbackImage))
	_ = p.Head.JSONLD(breadcrumbLD(c.d, body.Crumbs))

	c.d.Views.Render(w, http.StatusOK, "ad", p)
}
