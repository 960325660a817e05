// components/blog/blog.go
//
// Static blog: an index and one page per post.  Content lives in
// internal/blog; this component only renders it.

package blog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	gslug "github.com/gosimple/slug"

	"github.com/yanizio/escortde/internal/blog"
	"github.com/yanizio/escortde/internal/component"
)

// Component renders the blog pages.
type Component struct {
	d *component.Deps
}

// New builds the component.
func New(d *component.Deps) (component.Component, error) {
	return &Component{d: d}, nil
}

func init() { component.Register("blog", New) }

// Name returns the canonical component key.
func (c *Component) Name() string { return "blog" }

// Routes adds /blog and /blog/{slug}.
func (c *Component) Routes(r chi.Router) {
	r.Route("/blog", func(r chi.Router) {
		r.Use(c.d.Cached(nil))
		r.Get("/", c.index)
		r.Get("/{slug}", c.post)
	})
}

type indexBody struct {
	Posts []blog.Post
}

type postBody struct {
	Post blog.Post
}

func (c *Component) index(w http.ResponseWriter, r *http.Request) {
	site := c.d.Site()
	p := c.d.Views.NewPage(indexBody{Posts: blog.All()})
	p.Nav = component.Nav("")
	p.Head.SetTitle("Blog | " + site.Name)
	p.Head.Description("Guides and news about finding independent escorts in Germany, Switzerland, and Austria.")
	p.Head.Canonical(c.d.Abs("/blog"))
	c.d.Views.Render(w, http.StatusOK, "blog_index", p)
}

func (c *Component) post(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "slug")
	post, ok := blog.Find(raw)
	if !ok {
		// Hand-typed links ("Why-Book-...", "why book ...") get one repair.
		if !gslug.IsSlug(raw) {
			if fixed, found := blog.Find(gslug.Make(raw)); found {
				component.Redirect(w, r, "/blog/"+fixed.Slug, "blog_slug")
				return
			}
		}
		c.d.NotFound(w, "blog_post")
		return
	}

	site := c.d.Site()
	canonical := c.d.Abs("/blog/" + post.Slug)
	p := c.d.Views.NewPage(postBody{Post: post})
	p.Nav = component.Nav("")
	p.Head.SetTitle(post.Title + " | " + site.Name)
	p.Head.Description(post.Summary)
	p.Head.Canonical(canonical)
	p.Head.OpenGraph("type", "article")
	p.Head.OpenGraph("title", post.Title)
	p.Head.OpenGraph("url", canonical)
	_ = p.Head.JSONLD(map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Summary,
		"datePublished": post.Published.Format("2006-01-02"),
		"url":           canonical,
		"publisher":     map[string]any{"@type": "Organization", "name": site.Name},
	})
	c.d.Views.Render(w, http.StatusOK, "blog_post", p)
}
