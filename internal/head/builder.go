// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s
// <head> element.  It is scoped to a single render.  Handlers push
// metadata into it, then the base layout decides where to emit each slice.
//
// Features
// --------
//   - SetTitle           – single <title> tag (last call wins).
//   - Description, Canonical, Robots, OpenGraph – typed, escaped tags.
//   - Meta, Link         – raw pre-escaped tags with deduplication.
//   - JSONLD             – marshals a value and wraps it in
//     <script type="application/ld+json">…</script>.
//   - Render helpers     – concat methods that return template.HTML.
//
// Every canonical URL passed in must come from routing.BuildLandingPath or
// routing.AdPath, so head metadata and the redirect layer never disagree.
package head

import (
	"encoding/json"
	"hash/fnv"
	"html/template"
	"strconv"
	"strings"
	"sync"
)

// NoIndex is the robots value for not-found and private pages.
const NoIndex = "noindex,nofollow"

// Builder is safe for concurrent writes, though typical use is one
// goroutine per request.
type Builder struct {
	mu sync.Mutex

	// Single-value fields
	title       string
	description string
	canonical   string
	robots      string

	// Multi-value slices
	metas  []string
	links  []string
	jsonLD []string

	// seen tracks keys for deduplication.
	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// ------------------------------------------------------------------
// Single-value helpers
// ------------------------------------------------------------------

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// Description sets <meta name="description">.  Last call wins.
func (b *Builder) Description(d string) {
	b.mu.Lock()
	b.description = d
	b.mu.Unlock()
}

// Canonical sets <link rel="canonical"> to an absolute URL.
func (b *Builder) Canonical(url string) {
	b.mu.Lock()
	b.canonical = url
	b.mu.Unlock()
}

// Robots sets <meta name="robots">.
func (b *Builder) Robots(v string) {
	b.mu.Lock()
	b.robots = v
	b.mu.Unlock()
}

// PageTitle returns the raw title text.
func (b *Builder) PageTitle() string { return b.title }

// CanonicalURL returns the canonical URL, if set.
func (b *Builder) CanonicalURL() string { return b.canonical }

// RobotsValue returns the robots directive, if set.
func (b *Builder) RobotsValue() string { return b.robots }

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	if b.title == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(b.title)
	return template.HTML("<title>" + escaped + "</title>")
}

// ------------------------------------------------------------------
// Slice helpers with deduplication
// ------------------------------------------------------------------

// OpenGraph adds <meta property="og:…">.  prop is given without the
// "og:" prefix.
func (b *Builder) OpenGraph(prop, content string) {
	if content == "" {
		return
	}
	b.Meta(`<meta property="og:` + template.HTMLEscapeString(prop) +
		`" content="` + template.HTMLEscapeString(content) + `">`)
}

// Meta and Link take pre-escaped tags.
func (b *Builder) Meta(tag string) { b.add("meta:"+tag, &b.metas, tag) }
func (b *Builder) Link(tag string) { b.add("link:"+tag, &b.links, tag) }

// JSONLD marshals v and queues it.  encoding/json escapes <, >, and &, so
// the output is safe inside a script element.
func (b *Builder) JSONLD(v any) error {
	js, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b.add("jsonld:"+hash(js), &b.jsonLD, string(js))
	return nil
}

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// hash creates a short, stable key for JSON-LD blocks.
func hash(b []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(b)
	return strconv.FormatUint(h.Sum64(), 36)
}

// ------------------------------------------------------------------
// Rendering helpers called from the layout
// ------------------------------------------------------------------

// Metas emits description, robots, and every queued meta tag.
func (b *Builder) Metas() template.HTML {
	var sb strings.Builder
	if b.description != "" {
		sb.WriteString(`<meta name="description" content="` + template.HTMLEscapeString(b.description) + `">`)
	}
	if b.robots != "" {
		sb.WriteString(`<meta name="robots" content="` + template.HTMLEscapeString(b.robots) + `">`)
	}
	sb.WriteString(strings.Join(b.metas, ""))
	return template.HTML(sb.String())
}

// Links emits the canonical link and every queued link tag.
func (b *Builder) Links() template.HTML {
	var sb strings.Builder
	if b.canonical != "" {
		sb.WriteString(`<link rel="canonical" href="` + template.HTMLEscapeString(b.canonical) + `">`)
	}
	sb.WriteString(strings.Join(b.links, ""))
	return template.HTML(sb.String())
}

// JSON returns all JSON-LD blocks wrapped in <script> tags.
func (b *Builder) JSON() template.HTML {
	if len(b.jsonLD) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(js)
		sb.WriteString(`</script>`)
	}
	return template.HTML(sb.String())
}
