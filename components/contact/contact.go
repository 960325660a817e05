// components/contact/contact.go
//
// Public contact form.  Messages are stored as pending contact submissions
// and read by the admin on the dashboard.
//
// Routes
// ------
//   GET  /contact         form
//   POST /contact         submit (rate limited)
//   GET  /contact/thanks  confirmation

package contact

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/component"
	"github.com/yanizio/escortde/internal/form"
	"github.com/yanizio/escortde/internal/head"
	"github.com/yanizio/escortde/internal/logger"
	"github.com/yanizio/escortde/internal/metrics"
)

// Component serves the contact form.
type Component struct {
	d *component.Deps
}

// New builds the component.
func New(d *component.Deps) (component.Component, error) {
	return &Component{d: d}, nil
}

func init() { component.Register("contact", New) }

// Name returns the canonical component key.
func (c *Component) Name() string { return "contact" }

// Routes adds the form endpoints.
func (c *Component) Routes(r chi.Router) {
	r.Get("/contact", c.show)
	r.With(c.d.Limited()).Post("/contact", c.submit)
	r.Get("/contact/thanks", c.thanks)
}

type body struct {
	Values url.Values
	Errors form.ValidationError
	Stamp  form.Stamp
}

func (c *Component) show(w http.ResponseWriter, r *http.Request) {
	c.render(w, http.StatusOK, url.Values{}, form.ValidationError{})
}

func (c *Component) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	posted := r.PostForm

	if err := form.CheckPublic(posted); err != nil {
		c.invalid(w, posted, err)
		return
	}

	msg := ad.ContactForm{
		Name:        posted.Get("name"),
		Subject:     posted.Get("subject"),
		Description: posted.Get("description"),
	}
	if err := msg.Validate(); err != nil {
		c.invalid(w, posted, err)
		return
	}

	saved, err := c.d.Store.CreateContact(r.Context(), msg.ToSubmission())
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("contact", "error").Inc()
		metrics.StoreErrorsTotal.WithLabelValues("create_contact").Inc()
		zap.L().Error("contact submission failed", zap.Error(err))
		c.render(w, http.StatusServiceUnavailable, posted, form.ValidationError{Fields: []form.ErrorField{{
			Message: "We could not send your message right now.  Please try again in a few minutes.",
		}}})
		return
	}

	metrics.SubmissionsTotal.WithLabelValues("contact", "ok").Inc()
	logger.Ctx(r.Context()).Info("contact submitted", zap.String("id", saved.ID))
	http.Redirect(w, r, "/contact/thanks", http.StatusSeeOther)
}

func (c *Component) invalid(w http.ResponseWriter, posted url.Values, err error) {
	ve, ok := form.AsValidationError(err)
	if !ok {
		zap.L().Error("contact validation", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	metrics.SubmissionsTotal.WithLabelValues("contact", "invalid").Inc()
	c.render(w, http.StatusUnprocessableEntity, posted, ve)
}

func (c *Component) thanks(w http.ResponseWriter, r *http.Request) {
	p := c.d.Views.NewPage(nil)
	p.Nav = component.Nav("")
	p.Head.SetTitle("Message sent | " + c.d.Site().Name)
	p.Head.Robots(head.NoIndex)
	c.d.Views.Render(w, http.StatusOK, "contact_done", p)
}

func (c *Component) render(w http.ResponseWriter, status int, v url.Values, errs form.ValidationError) {
	stamp, err := form.NewStamp()
	if err != nil {
		zap.L().Error("csrf token", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	component.Private(w)
	p := c.d.Views.NewPage(body{Values: v, Errors: errs, Stamp: stamp})
	p.Nav = component.Nav("")
	p.Head.SetTitle("Contact | " + c.d.Site().Name)
	p.Head.Description("Questions about your ad or the site?  Send us a message.")
	p.Head.Canonical(c.d.Abs("/contact"))
	c.d.Views.Render(w, status, "contact", p)
}
