package admin

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/form"
	"github.com/yanizio/escortde/internal/store"
)

// editFields are the text attributes the edit form exposes.  Languages
// and image removal are handled separately.
var editFields = []string{
	"name", "age", "gender", "city", "country", "phone", "email",
	"whatsapp", "telegram", "instagram", "twitter", "hair_color", "description",
}

const maxLanguages = 12

var requiredEdit = map[string]string{
	"name":    "Name is required.",
	"city":    "City is required.",
	"country": "Country is required.",
	"phone":   "Phone number is required.",
}

type editBody struct {
	Ad      *ad.Ad
	Values  url.Values
	Errors  form.ValidationError
	Stamp   form.Stamp
	Genders []ad.Gender
}

func (c *Component) editForm(w http.ResponseWriter, r *http.Request) {
	a, err := c.d.Store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.toDashboard(w, r, outcome(err))
		return
	}
	c.renderEdit(w, http.StatusOK, a, valuesOf(a), form.ValidationError{})
}

func (c *Component) edit(w http.ResponseWriter, r *http.Request) {
	posted, ok := c.checkPost(w, r)
	if !ok {
		return
	}
	a, err := c.d.Store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.toDashboard(w, r, outcome(err))
		return
	}

	patch, verr := patchFrom(posted, a.Images)
	if verr != nil {
		c.renderEdit(w, http.StatusUnprocessableEntity, a, posted, *verr)
		return
	}

	if _, err := c.d.Moderation.Edit(r.Context(), a.ID, patch); err != nil {
		c.toDashboard(w, r, outcome(err))
		return
	}
	c.toDashboard(w, r, "saved")
}

func (c *Component) renderEdit(w http.ResponseWriter, status int, a *ad.Ad, v url.Values, errs form.ValidationError) {
	stamp, err := form.NewStamp()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	c.d.Views.Render(w, status, "admin_edit", c.page("Edit "+a.Name, editBody{
		Ad: a, Values: v, Errors: errs, Stamp: stamp, Genders: adminGenders,
	}))
}

func valuesOf(a *ad.Ad) url.Values {
	return url.Values{
		"name":        {a.Name},
		"age":         {a.Age},
		"gender":      {string(a.Gender)},
		"city":        {a.City},
		"country":     {a.Country},
		"phone":       {a.Phone},
		"email":       {a.Email},
		"whatsapp":    {a.WhatsApp},
		"telegram":    {a.Telegram},
		"instagram":   {a.Instagram},
		"twitter":     {a.Twitter},
		"hair_color":  {a.HairColor},
		"languages":   {strings.Join(a.Languages, ", ")},
		"description": {a.Description},
	}
}

// patchFrom builds a Patch setting every edit field.  Required fields must
// be non-blank and the gender must be a stored category.  Images listed in
// remove_image are dropped from images; unknown URLs are ignored.
func patchFrom(v url.Values, images []string) (store.Patch, *form.ValidationError) {
	val := make(map[string]string, len(editFields))
	for _, f := range editFields {
		val[f] = strings.TrimSpace(v.Get(f))
	}
	langs := splitLanguages(v.Get("languages"))

	var ve form.ValidationError
	for _, f := range editFields {
		if msg, req := requiredEdit[f]; req && val[f] == "" {
			ve.Fields = append(ve.Fields, form.ErrorField{Name: f, Message: msg})
		}
	}
	g := ad.Gender(val["gender"])
	if !g.Known() {
		ve.Fields = append(ve.Fields, form.ErrorField{Name: "gender", Message: "Please choose a category."})
	}
	if len(langs) > maxLanguages {
		ve.Fields = append(ve.Fields, form.ErrorField{Name: "languages", Message: "List at most 12 languages."})
	}
	if len(ve.Fields) > 0 {
		return store.Patch{}, &ve
	}

	str := func(f string) *string { s := val[f]; return &s }
	kept := keepImages(images, v["remove_image"])
	return store.Patch{
		Name:        str("name"),
		Age:         str("age"),
		Gender:      &g,
		City:        str("city"),
		Country:     str("country"),
		Phone:       str("phone"),
		Email:       str("email"),
		WhatsApp:    str("whatsapp"),
		Telegram:    str("telegram"),
		Instagram:   str("instagram"),
		Twitter:     str("twitter"),
		HairColor:   str("hair_color"),
		Languages:   &langs,
		Description: str("description"),
		Images:      &kept,
	}, nil
}

// splitLanguages parses "German, English" into trimmed, non-empty names.
func splitLanguages(s string) []string {
	out := []string{}
	for _, l := range strings.Split(s, ",") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func keepImages(images, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, u := range remove {
		drop[u] = true
	}
	kept := make([]string, 0, len(images))
	for _, u := range images {
		if !drop[u] {
			kept = append(kept, u)
		}
	}
	return kept
}
