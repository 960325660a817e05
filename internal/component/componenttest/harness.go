// Package componenttest builds a fully wired Deps over in-memory fakes for
// component handler tests.
package componenttest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/auth"
	"github.com/yanizio/escortde/internal/component"
	"github.com/yanizio/escortde/internal/form"
	"github.com/yanizio/escortde/internal/imagestore"
	"github.com/yanizio/escortde/internal/listing"
	"github.com/yanizio/escortde/internal/moderation"
	"github.com/yanizio/escortde/internal/pagecache"
	"github.com/yanizio/escortde/internal/session"
	"github.com/yanizio/escortde/internal/store"
	"github.com/yanizio/escortde/internal/view"
)

// Test credentials.  The hash is generated once per process.
const (
	AdminUser     = "admin"
	AdminPassword = "correct horse battery"
	AdminPath     = "/adm2211"
	BaseURL       = "https://example.com"
)

// Harness is a wired Deps plus the fakes behind it.
type Harness struct {
	Deps   *component.Deps
	Store  *store.Memory
	Images *imagestore.Memory
	Pages  *pagecache.Cache
	Router chi.Router
}

var adminHash string

// New returns a Harness seeded with ads.  Form timing checks are disabled.
func New(t testing.TB, seed ...ad.Ad) *Harness {
	t.Helper()

	form.Configure("componenttest-csrf-secret-0123456789abcdef")
	form.MinFillTime = 0

	if adminHash == "" {
		h, err := auth.HashPassword(AdminPassword)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		adminHash = h
	}

	views, err := view.New(view.Site{
		Name:          "Escort Directory",
		BaseURL:       BaseURL,
		FallbackImage: "https://i.ibb.co/GQPtQvJB/image.jpg",
		AdminPath:     AdminPath,
	})
	if err != nil {
		t.Fatalf("views: %v", err)
	}

	sessions, err := session.New(session.Options{
		Secret: []byte("componenttest-session-secret-0123456789"),
		Path:   AdminPath,
	})
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}

	st := store.NewMemory(seed...)
	imgs := imagestore.NewMemory()
	pages := pagecache.New(time.Minute, 100)

	d := &component.Deps{
		Store:      st,
		Listings:   listing.New(st),
		Moderation: moderation.New(st, pages, imgs),
		Images:     imgs,
		Views:      views,
		Sessions:   sessions,
		Admin:      auth.Credentials{Username: AdminUser, PasswordHash: adminHash},
		Pages:      pages,
	}
	return &Harness{Deps: d, Store: st, Images: imgs, Pages: pages, Router: chi.NewRouter()}
}

// Mount builds c with the harness deps and adds its routes.
func (h *Harness) Mount(t testing.TB, f component.Factory) {
	t.Helper()
	c, err := f(h.Deps)
	if err != nil {
		t.Fatalf("build component: %v", err)
	}
	c.Routes(h.Router)
}

// Do serves req and returns the recorder.
func (h *Harness) Do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.Router.ServeHTTP(rr, req)
	return rr
}

// Get issues a GET for target.
func (h *Harness) Get(target string) *httptest.ResponseRecorder {
	return h.Do(httptest.NewRequest(http.MethodGet, target, nil))
}

// PostForm issues a url-encoded POST with a valid CSRF stamp added.
func (h *Harness) PostForm(target string, v url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	if v == nil {
		v = url.Values{}
	}
	Stamp(v)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return h.Do(req)
}

// Stamp adds fresh csrf_token and render_ts values to v.
func Stamp(v url.Values) {
	s, err := form.NewStamp()
	if err != nil {
		panic(err)
	}
	v.Set(form.FieldCSRF, s.Token)
	v.Set(form.FieldRenderTS, s.RenderTS)
}

// Login returns a valid admin session cookie.
func (h *Harness) Login(t testing.TB) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	if err := h.Deps.Sessions.Issue(rr, AdminUser); err != nil {
		t.Fatalf("issue: %v", err)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.DefaultCookie {
			return c
		}
	}
	t.Fatalf("no session cookie issued")
	return nil
}

// Doc parses the recorded body.
func Doc(t testing.TB, rr *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rr.Body.String()))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// Int64 returns a pointer to n, for PublicID literals.
func Int64(n int64) *int64 { return &n }
