// Package blog holds the site's static articles as Go data.
//
// Posts are few and rarely change, so they ship with the binary instead of
// living in the database.  Links inside posts are built with the canonical
// path builder so they never point at a redirecting URL.
package blog

import (
	"time"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/routing"
)

// Block kinds.
const (
	Paragraph = "paragraph"
	Heading   = "heading"
	List      = "list"
	Link      = "link"
)

// Block is one piece of post content.
type Block struct {
	Kind  string
	Text  string
	Href  string
	Items []string
}

// Post is a static article.
type Post struct {
	Slug      string
	Title     string
	Summary   string
	Published time.Time
	Country   string
	Blocks    []Block
}

var posts = []Post{
	{
		Slug:      "why-book-germany-escorts-from-escort-de",
		Title:     "Why book Germany escorts from Escort.de?",
		Summary:   "Verified profiles, fewer scammers, and a simple way to find independent escorts in Germany.",
		Published: time.Date(2025, 12, 23, 0, 0, 0, 0, time.UTC),
		Country:   "Germany",
		Blocks: []Block{
			{Kind: Paragraph, Text: "If you are looking for independent escorts in Germany, the biggest challenge is trust: fake listings, reused photos, and time-wasting agents.  Escort.de is built to reduce that noise and help you find real profiles faster."},
			{Kind: Heading, Text: "What makes Escort.de better?"},
			{Kind: List, Items: []string{
				"Verified profile workflow to reduce scams and low-quality listings.",
				"Clear location structure (country and city) so you can browse exactly where you are.",
				"Fast pages and image optimization so mobile users can browse without waiting.",
			}},
			{Kind: Paragraph, Text: "Start browsing Germany escort listings here:"},
			{Kind: Link, Href: routing.BuildLandingPath(ad.Female, "Germany", ""), Text: "Germany Escorts"},
			{Kind: Paragraph, Text: "Tip: use the city links to narrow down and find the closest verified profiles."},
		},
	},
	{
		Slug:      "why-book-switzerland-escorts-from-escort-de",
		Title:     "Why book Switzerland escorts from Escort.de?",
		Summary:   "A safer way to browse independent escorts in Switzerland with verified profiles and clean listings.",
		Published: time.Date(2025, 12, 23, 0, 0, 0, 0, time.UTC),
		Country:   "Switzerland",
		Blocks: []Block{
			{Kind: Paragraph, Text: "Switzerland is one of the most searched locations, but many directories are cluttered with outdated ads or spam.  Escort.de focuses on quality: clean pages, fast loading on mobile, and listings that are easier to trust."},
			{Kind: Heading, Text: "How Escort.de helps you find the right match"},
			{Kind: List, Items: []string{
				"Verified profiles to reduce scammers and fake ads.",
				"Simple browsing by country and city, without endless paging.",
				"Landing pages per location so you can find relevant results quickly.",
			}},
			{Kind: Paragraph, Text: "Browse Switzerland escort listings here:"},
			{Kind: Link, Href: routing.BuildLandingPath(ad.Female, "Switzerland", ""), Text: "Switzerland Escorts"},
			{Kind: Paragraph, Text: "From there you can pick a city and view profiles with photos, rates, and contact info."},
		},
	},
}

// All returns every post, newest first.
func All() []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	return out
}

// Find returns the post with slug.
func Find(slug string) (Post, bool) {
	for _, p := range posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}
