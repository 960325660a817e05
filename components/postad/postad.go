// components/postad/postad.go
//
// Public ad submission.
//
// Routes
// ------
//   GET  /post-ad         form
//   POST /post-ad         submit (rate limited)
//   GET  /post-ad/thanks  confirmation
//
// Workflow
// --------
//   1. Parse the multipart body (capped at MaxBody).
//   2. form.CheckPublic verifies the CSRF token and fill time.
//   3. The Submission is normalized and validated before any upload, so
//      rejected forms never leave orphaned objects.
//   4. Images are sniffed and stored; the ad is created as pending.
//   5. If the insert fails, the uploaded images are removed again.
//   6. 303 to /post-ad/thanks (post/redirect/get).
//
// Validation failures re-render the form with 422 and per-field messages.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package postad

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/component"
	"github.com/yanizio/escortde/internal/form"
	"github.com/yanizio/escortde/internal/head"
	"github.com/yanizio/escortde/internal/imagestore"
	"github.com/yanizio/escortde/internal/logger"
	"github.com/yanizio/escortde/internal/metrics"
)

// Upload limits.
const (
	MaxBody   = 80 << 20 // whole request
	MaxMemory = 16 << 20 // parts above this spill to temp files
	formRows  = 3        // blank service and rate rows offered
)

// Component serves the submission form.
type Component struct {
	d *component.Deps
}

// New builds the component.
func New(d *component.Deps) (component.Component, error) {
	if d.Images == nil {
		return nil, errors.New("postad: image store is required")
	}
	return &Component{d: d}, nil
}

func init() { component.Register("postad", New) }

// Name returns the canonical component key.
func (c *Component) Name() string { return "postad" }

// Routes adds the form endpoints.
func (c *Component) Routes(r chi.Router) {
	r.Get("/post-ad", c.show)
	r.With(c.d.Limited()).Post("/post-ad", c.submit)
	r.Get("/post-ad/thanks", c.thanks)
}

type body struct {
	Values      url.Values
	Errors      form.ValidationError
	Stamp       form.Stamp
	Genders     []ad.Gender
	Countries   []ad.Country
	ServiceRows []ad.Service
	RateRows    []ad.Rate
}

func (c *Component) show(w http.ResponseWriter, r *http.Request) {
	c.render(w, http.StatusOK, url.Values{}, form.ValidationError{}, nil)
}

func (c *Component) thanks(w http.ResponseWriter, r *http.Request) {
	p := c.d.Views.NewPage(nil)
	p.Nav = component.Nav("")
	p.Head.SetTitle("Ad submitted | " + c.d.Site().Name)
	p.Head.Robots(head.NoIndex)
	c.d.Views.Render(w, http.StatusOK, "postad_done", p)
}

func (c *Component) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBody)
	if err := r.ParseMultipartForm(MaxMemory); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("ad", "invalid").Inc()
		status := http.StatusBadRequest
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			status = http.StatusRequestEntityTooLarge
		}
		c.render(w, status, url.Values{}, formError(
			"The upload could not be read.  Please keep photos under 8 MB each and try again."), nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	posted := r.PostForm
	if err := form.CheckPublic(posted); err != nil {
		c.invalid(w, posted, err, nil)
		return
	}

	sub := decode(posted)
	files := r.MultipartForm.File["images"]
	sub.ImageCount = len(files)
	sub.Normalize()
	if err := sub.Validate(); err != nil {
		c.invalid(w, posted, err, sub)
		return
	}

	ctx := r.Context()
	urls, err := imagestore.UploadAll(ctx, c.d.Images, files)
	if err != nil {
		switch {
		case errors.Is(err, imagestore.ErrUnsupportedType):
			c.invalid(w, posted, form.ValidationError{Fields: []form.ErrorField{{
				Name: "images", Message: "Photos must be JPEG, PNG, WebP, or GIF images.",
			}}}, sub)
			return
		case errors.Is(err, imagestore.ErrTooLarge):
			c.invalid(w, posted, form.ValidationError{Fields: []form.ErrorField{{
				Name: "images", Message: "Each photo must be 8 MB or smaller.",
			}}}, sub)
			return
		}
		c.failed(w, posted, sub, "upload", err)
		return
	}

	created, err := c.d.Store.Create(ctx, sub.ToAd(urls))
	if err != nil {
		for _, u := range urls {
			if rmErr := c.d.Images.Remove(ctx, u); rmErr != nil {
				zap.L().Warn("orphaned image", zap.String("url", u), zap.Error(rmErr))
			}
		}
		c.failed(w, posted, sub, "create", err)
		return
	}

	metrics.SubmissionsTotal.WithLabelValues("ad", "ok").Inc()
	logger.Ctx(ctx).Info("ad submitted",
		zap.String("id", created.ID),
		zap.String("gender", string(created.Gender)),
		zap.String("country", created.Country),
		zap.String("city", created.City),
		zap.Int("images", len(urls)))
	http.Redirect(w, r, "/post-ad/thanks", http.StatusSeeOther)
}

func (c *Component) invalid(w http.ResponseWriter, posted url.Values, err error, sub *ad.Submission) {
	ve, ok := form.AsValidationError(err)
	if !ok {
		c.failed(w, posted, sub, "validate", err)
		return
	}
	metrics.SubmissionsTotal.WithLabelValues("ad", "invalid").Inc()
	c.render(w, http.StatusUnprocessableEntity, posted, ve, sub)
}

func (c *Component) failed(w http.ResponseWriter, posted url.Values, sub *ad.Submission, op string, err error) {
	metrics.SubmissionsTotal.WithLabelValues("ad", "error").Inc()
	metrics.StoreErrorsTotal.WithLabelValues("postad_" + op).Inc()
	zap.L().Error("ad submission failed", zap.String("op", op), zap.Error(err))
	c.render(w, http.StatusServiceUnavailable, posted,
		formError("We could not save your ad right now.  Please try again in a few minutes."), sub)
}

func (c *Component) render(w http.ResponseWriter, status int, v url.Values, errs form.ValidationError, sub *ad.Submission) {
	stamp, err := form.NewStamp()
	if err != nil {
		zap.L().Error("csrf token", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	b := body{
		Values:    v,
		Errors:    errs,
		Stamp:     stamp,
		Genders:   ad.CurrentGenders,
		Countries: ad.SupportedCountries(),
	}
	if sub != nil {
		b.ServiceRows = sub.Services
		b.RateRows = sub.Rates
	}
	b.ServiceRows = padServices(b.ServiceRows)
	b.RateRows = padRates(b.RateRows)

	component.Private(w)
	p := c.d.Views.NewPage(b)
	p.Nav = component.Nav("")
	p.Head.SetTitle("Post your ad | " + c.d.Site().Name)
	p.Head.Description("Advertise as an independent escort.  Ads are reviewed before they go live.")
	p.Head.Canonical(c.d.Abs("/post-ad"))
	c.d.Views.Render(w, status, "postad", p)
}

func formError(msg string) form.ValidationError {
	return form.ValidationError{Fields: []form.ErrorField{{Message: msg}}}
}

/*──────────────────────────── decoding ────────────────────────────────────*/

// decode reads the scalar fields and the repeated service and rate rows.
// Rows whose inputs are all blank are dropped.
func decode(v url.Values) *ad.Submission {
	s := &ad.Submission{
		Name:        v.Get("name"),
		Age:         v.Get("age"),
		Gender:      ad.Gender(v.Get("gender")),
		Country:     v.Get("country"),
		City:        v.Get("city"),
		Phone:       v.Get("phone"),
		Email:       v.Get("email"),
		WhatsApp:    v.Get("whatsapp"),
		Telegram:    v.Get("telegram"),
		Instagram:   v.Get("instagram"),
		Twitter:     v.Get("twitter"),
		HairColor:   v.Get("hair_color"),
		Description: v.Get("description"),
	}
	if langs := v.Get("languages"); langs != "" {
		s.Languages = strings.Split(langs, ",")
	}

	names, extras := v["service_name"], v["service_extra"]
	for i, name := range names {
		svc := ad.Service{
			Name:       strings.TrimSpace(name),
			Included:   v.Get("service_included_"+strconv.Itoa(i)) == "1",
			ExtraPrice: strings.TrimSpace(at(extras, i)),
		}
		if svc.Name == "" && svc.ExtraPrice == "" && !svc.Included {
			continue
		}
		s.Services = append(s.Services, svc)
	}

	times, in, out := v["rate_time"], v["rate_incall"], v["rate_outcall"]
	for i := range times {
		rate := ad.Rate{
			Time:    strings.TrimSpace(times[i]),
			Incall:  strings.TrimSpace(at(in, i)),
			Outcall: strings.TrimSpace(at(out, i)),
		}
		if rate.Time == "" && rate.Incall == "" && rate.Outcall == "" {
			continue
		}
		s.Rates = append(s.Rates, rate)
	}
	return s
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}

func padServices(rows []ad.Service) []ad.Service {
	out := append([]ad.Service(nil), rows...)
	for len(out) < formRows || len(out) < len(rows)+1 {
		out = append(out, ad.Service{})
	}
	return out
}

func padRates(rows []ad.Rate) []ad.Rate {
	out := append([]ad.Rate(nil), rows...)
	for len(out) < formRows || len(out) < len(rows)+1 {
		out = append(out, ad.Rate{})
	}
	return out
}
