package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/form"
	"github.com/yanizio/escortde/internal/metrics"
)

// adminGenders lists every stored category, retired ones included, so old
// rows stay reachable from the filter.
var adminGenders = []ad.Gender{ad.Female, ad.Male, ad.Trans, ad.LuxuryEscort, ad.Webcam}

type counts struct {
	Live     int
	Pending  int
	Inactive int
	Contacts int // pending contact submissions
}

type dashboardBody struct {
	Ads      []ad.Ad
	Contacts []ad.ContactSubmission
	Counts   counts
	Filter   ad.Gender
	Genders  []ad.Gender
	Stamp    form.Stamp
}

func (c *Component) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		ads      []ad.Ad
		contacts []ad.ContactSubmission
		g        errgroup.Group
	)
	g.Go(func() (err error) {
		ads, err = c.d.Store.ListAll(ctx)
		if err != nil {
			metrics.StoreErrorsTotal.WithLabelValues("list_all").Inc()
		}
		return err
	})
	g.Go(func() (err error) {
		contacts, err = c.d.Store.ListContacts(ctx)
		if err != nil {
			metrics.StoreErrorsTotal.WithLabelValues("list_contacts").Inc()
		}
		return err
	})
	loadErr := g.Wait()

	filter := ad.Gender(r.URL.Query().Get("gender"))
	if !filter.Known() {
		filter = ""
	}

	b := dashboardBody{
		Contacts: contacts,
		Counts:   tally(ads, contacts),
		Filter:   filter,
		Genders:  adminGenders,
	}
	for _, a := range ads {
		if filter == "" || a.Gender == filter {
			b.Ads = append(b.Ads, a)
		}
	}

	stamp, err := form.NewStamp()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	b.Stamp = stamp

	p := c.page("Dashboard", b)
	if msg, ok := notices[r.URL.Query().Get("notice")]; ok {
		p.Alert = msg
	}
	if loadErr != nil {
		zap.L().Error("dashboard load failed", zap.Error(loadErr))
		p.Alert = "Some data could not be loaded.  The lists below may be incomplete."
	}
	c.d.Views.Render(w, http.StatusOK, "admin_dashboard", p)
}

func tally(ads []ad.Ad, contacts []ad.ContactSubmission) counts {
	var n counts
	for _, a := range ads {
		switch a.Status {
		case ad.Approved:
			n.Live++
		case ad.Pending:
			n.Pending++
		case ad.Inactive:
			n.Inactive++
		}
	}
	for _, cs := range contacts {
		if cs.Status == ad.ContactPending {
			n.Contacts++
		}
	}
	return n
}

/*──────────────────────────── actions ─────────────────────────────────────*/

func (c *Component) adAction(w http.ResponseWriter, r *http.Request) {
	if _, ok := c.checkPost(w, r); !ok {
		return
	}
	action, ok := ad.ParseAction(chi.URLParam(r, "action"))
	if !ok {
		c.toDashboard(w, r, "unknown")
		return
	}
	_, err := c.d.Moderation.Ad(r.Context(), chi.URLParam(r, "id"), action)
	c.toDashboard(w, r, outcome(err))
}

func (c *Component) contactAction(w http.ResponseWriter, r *http.Request) {
	if _, ok := c.checkPost(w, r); !ok {
		return
	}
	action, ok := ad.ParseContactAction(chi.URLParam(r, "action"))
	if !ok {
		c.toDashboard(w, r, "unknown")
		return
	}
	err := c.d.Moderation.Contact(r.Context(), chi.URLParam(r, "id"), action)
	c.toDashboard(w, r, outcome(err))
}
