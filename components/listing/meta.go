package listing

import (
	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/component"
	"github.com/yanizio/escortde/internal/view"
)

// DescriptionLimit caps meta descriptions on detail pages.
const DescriptionLimit = 160

type meta struct {
	title       string
	description string
	heading     string
}

// landingMeta builds the listing title and description.  placeShort is the
// most specific place, placeLong the full "City, Country" form.
func landingMeta(g ad.Gender, country, city string) meta {
	label := g.Label()
	if country == "" {
		return meta{
			title: label + " Escorts, " + label + " Independent Escorts",
			description: "Browse " + label + " independent escorts.  " +
				"Verified profiles with photos, rates, and contact information.",
			heading: label + " Escorts",
		}
	}

	placeShort, placeLong := country, country
	if city != "" {
		placeShort, placeLong = city, city+", "+country
	}
	return meta{
		title: placeShort + " Escorts, " + label + " Independent Escorts in " + placeLong,
		description: "Browse " + label + " independent escorts in " + placeLong + ".  " +
			"Verified profiles with photos, rates, and contact information.",
		heading: label + " Escorts in " + placeLong,
	}
}

func detailMeta(a *ad.Ad) meta {
	return meta{
		title: a.City + " Escorts, " + a.Gender.Label() + " Independent Escort in " +
			a.City + ", " + a.Country,
		description: view.Truncate(DescriptionLimit, a.Description),
	}
}

/*──────────────────────────── JSON-LD ─────────────────────────────────────*/

type ldThing = map[string]any

func websiteLD(name, url string) ldThing {
	return ldThing{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
		"url":      url,
	}
}

func personLD(a *ad.Ad, url, fallback string) ldThing {
	p := ldThing{
		"@context":    "https://schema.org",
		"@type":       "Person",
		"name":        a.Name,
		"url":         url,
		"image":       a.Cover(fallback),
		"description": view.Truncate(DescriptionLimit, a.Description),
		"address": ldThing{
			"@type":           "PostalAddress",
			"addressLocality": a.City,
			"addressCountry":  a.Country,
		},
	}
	if g := a.Gender; g == ad.Female || g == ad.Male {
		p["gender"] = g.Label()
	}
	return p
}

func breadcrumbLD(d *component.Deps, cs []crumb) ldThing {
	items := make([]ldThing, 0, len(cs))
	for i, c := range cs {
		items = append(items, ldThing{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     c.Label,
			"item":     d.Abs(c.Href),
		})
	}
	return ldThing{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	}
}
