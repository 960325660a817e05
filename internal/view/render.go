// internal/view/render.go
//
// Central view engine: embedded templates, func-map injection, and one
// parsed *template.Template set per page.
//
// Public helpers
// --------------
//   - Render         – write rendered HTML to an http.ResponseWriter.
//   - RenderToString – return template.HTML (tests, fragments).
//
// Layout
// ------
// templates/layout.html defines "layout" and the shared partials.  Each
// page file defines "content" (and optionally "scripts").  A page set is
// the layout cloned and extended with one page file, so pages can never
// see each other's blocks.
//
// Rendering goes to a buffer first, so a template error yields a clean 500
// instead of half a page.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/escortde/internal/head"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "layout.html"

// Site is the per-process information every page needs.
type Site struct {
	Name          string
	BaseURL       string
	FallbackImage string
	AdminPath     string
}

// NavLink is one entry of the header navigation.
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// Page is the root value handed to every template.
type Page struct {
	Head  *head.Builder
	Site  Site
	Nav   []NavLink
	Alert string
	Body  any
}

// Engine holds the parsed page sets.
type Engine struct {
	site  Site
	pages map[string]*template.Template
}

// New parses every embedded template.  It fails fast on syntax errors so a
// broken template never reaches production.
func New(site Site) (*Engine, error) {
	return newEngine(site, templateFS)
}

func newEngine(site Site, fsys fs.FS) (*Engine, error) {
	base, err := template.New(layoutFile).Funcs(funcMap(site)).ParseFS(fsys, "templates/"+layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}

	e := &Engine{site: site, pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		if name+".html" == layoutFile {
			continue
		}
		set, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := set.ParseFS(fsys, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		e.pages[name] = set
	}
	return e, nil
}

// Site returns the site information the engine was built with.
func (e *Engine) Site() Site { return e.site }

// NewPage returns a Page with a fresh head builder and the site filled in.
func (e *Engine) NewPage(body any) *Page {
	return &Page{Head: head.New(), Site: e.site, Body: body}
}

// Render executes page and streams it to w with the given status.
func (e *Engine) Render(w http.ResponseWriter, status int, page string, p *Page) {
	out, err := e.RenderToString(page, p)
	if err != nil {
		zap.L().Error("template render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(out))
}

// RenderToString executes page and returns the HTML.
func (e *Engine) RenderToString(page string, p *Page) (template.HTML, error) {
	set, ok := e.pages[page]
	if !ok {
		return "", fmt.Errorf("view: unknown page %q", page)
	}
	if p.Head == nil {
		p.Head = head.New()
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, "layout", p); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
