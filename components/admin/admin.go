// components/admin/admin.go
//
// Admin moderation surface.
//
// Routes (relative to the configured admin path, default /adm2211)
// ------
//   GET  /                        login form (redirects when signed in)
//   POST /                        login (rate limited)
//   POST /logout                  clear session
//   GET  /dashboard               ads + contacts, counts, gender filter
//   POST /ads/{id}/{action}       approve | reject | deactivate | reactivate | delete
//   GET  /ads/{id}/edit           edit form
//   POST /ads/{id}/edit           save edits
//   POST /contacts/{id}/{action}  review | delete
//
// Security
// --------
// Every route except the login pair sits behind acl.RequireAdmin, which
// verifies the signed session cookie server-side on each request.  Every
// POST carries a CSRF token.  Responses are never cached and never indexed.
//
// Outcomes of actions are reported on the dashboard through ?notice=, so a
// reload after a redirect does not repeat the command.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package admin

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/escortde/internal/acl"
	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/component"
	"github.com/yanizio/escortde/internal/form"
	"github.com/yanizio/escortde/internal/head"
	"github.com/yanizio/escortde/internal/logger"
	"github.com/yanizio/escortde/internal/metrics"
	"github.com/yanizio/escortde/internal/store"
	"github.com/yanizio/escortde/internal/view"
)

// Component serves the admin pages.
type Component struct {
	d    *component.Deps
	base string
}

// New builds the component.
func New(d *component.Deps) (component.Component, error) {
	if d.Sessions == nil {
		return nil, errors.New("admin: session manager is required")
	}
	base := d.Site().AdminPath
	if base == "" || base[0] != '/' {
		return nil, errors.New("admin: admin path must start with /")
	}
	return &Component{d: d, base: base}, nil
}

func init() { component.Register("admin", New) }

// Name returns the canonical component key.
func (c *Component) Name() string { return "admin" }

// Routes mounts the admin surface under the admin path.
func (c *Component) Routes(r chi.Router) {
	r.Route(c.base, func(r chi.Router) {
		r.Use(noStore)
		r.Get("/", c.loginForm)
		r.With(c.d.Limited()).Post("/", c.login)

		r.Group(func(r chi.Router) {
			r.Use(acl.RequireAdmin(c.d.Sessions, c.base))
			r.Post("/logout", c.logout)
			r.Get("/dashboard", c.dashboard)
			r.Get("/ads/{id}/edit", c.editForm)
			r.Post("/ads/{id}/edit", c.edit)
			r.Post("/ads/{id}/{action}", c.adAction)
			r.Post("/contacts/{id}/{action}", c.contactAction)
		})
	})
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		component.Private(w)
		next.ServeHTTP(w, r)
	})
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// page returns a non-indexable admin page.
func (c *Component) page(title string, b any) *view.Page {
	p := c.d.Views.NewPage(b)
	p.Head.SetTitle(title + " | Admin")
	p.Head.Robots(head.NoIndex)
	return p
}

// checkPost parses the form and verifies its CSRF token.  It writes the
// error response itself and returns false on failure.
func (c *Component) checkPost(w http.ResponseWriter, r *http.Request) (url.Values, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return nil, false
	}
	if err := form.CheckCSRF(r.PostForm); err != nil {
		zap.L().Warn("admin csrf rejected", zap.String("path", r.URL.Path))
		http.Error(w, "Security token invalid.  Please go back, refresh, and try again.", http.StatusForbidden)
		return nil, false
	}
	return r.PostForm, true
}

// toDashboard redirects with an outcome notice.
func (c *Component) toDashboard(w http.ResponseWriter, r *http.Request, notice string) {
	http.Redirect(w, r, c.base+"/dashboard?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}

// outcome maps a moderation error to a notice code.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ad.ErrInvalidTransition):
		return "invalid"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	}
	return "error"
}

var notices = map[string]string{
	"ok":        "Done.",
	"saved":     "Changes saved.",
	"invalid":   "That action is not allowed in the item's current state.",
	"not_found": "The item no longer exists.",
	"error":     "The change could not be saved.  Please try again.",
	"unknown":   "Unknown action.",
}

/*──────────────────────────── login ───────────────────────────────────────*/

type loginBody struct {
	Errors   form.ValidationError
	Stamp    form.Stamp
	Username string
}

func (c *Component) loginForm(w http.ResponseWriter, r *http.Request) {
	if _, err := c.d.Sessions.Verify(r); err == nil {
		http.Redirect(w, r, c.base+"/dashboard", http.StatusSeeOther)
		return
	}
	c.renderLogin(w, http.StatusOK, "", form.ValidationError{})
}

func (c *Component) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	user := r.PostForm.Get("username")

	if err := form.CheckCSRF(r.PostForm); err != nil {
		ve, _ := form.AsValidationError(err)
		metrics.AdminLoginsTotal.WithLabelValues("csrf").Inc()
		c.renderLogin(w, http.StatusForbidden, user, ve)
		return
	}

	if !c.d.Admin.Verify(user, r.PostForm.Get("password")) {
		metrics.AdminLoginsTotal.WithLabelValues("denied").Inc()
		logger.Ctx(r.Context()).Warn("admin login denied", zap.String("user", user))
		c.renderLogin(w, http.StatusUnauthorized, user, form.ValidationError{Fields: []form.ErrorField{{
			Name: "password", Message: "Incorrect username or password.",
		}}})
		return
	}

	if err := c.d.Sessions.Issue(w, user); err != nil {
		metrics.AdminLoginsTotal.WithLabelValues("error").Inc()
		zap.L().Error("issue admin session", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	metrics.AdminLoginsTotal.WithLabelValues("ok").Inc()
	logger.Ctx(r.Context()).Info("admin login", zap.String("user", user))
	http.Redirect(w, r, c.base+"/dashboard", http.StatusSeeOther)
}

func (c *Component) logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := c.checkPost(w, r); !ok {
		return
	}
	c.d.Sessions.Clear(w)
	http.Redirect(w, r, c.base, http.StatusSeeOther)
}

func (c *Component) renderLogin(w http.ResponseWriter, status int, user string, errs form.ValidationError) {
	stamp, err := form.NewStamp()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	c.d.Views.Render(w, status, "admin_login", c.page("Login", loginBody{
		Errors: errs, Stamp: stamp, Username: user,
	}))
}
