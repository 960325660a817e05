package postad

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/component/componenttest"
	"github.com/yanizio/escortde/internal/form"
)

var png = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

func validValues() url.Values {
	v := url.Values{}
	v.Set("name", "Lena")
	v.Set("age", "25")
	v.Set("gender", "female")
	v.Set("country", "Switzerland")
	v.Set("city", "Zürich")
	v.Set("phone", "+41 79 000 00 00")
	v.Set("languages", "German, English, ")
	v.Set("description", strings.Repeat("Warm, elegant and discreet. ", 3))
	v["service_name"] = []string{"Dinner date", "", ""}
	v["service_extra"] = []string{"", "", ""}
	v.Set("service_included_0", "1")
	v["rate_time"] = []string{"1 hour", ""}
	v["rate_incall"] = []string{"250", ""}
	v["rate_outcall"] = []string{"300", ""}
	return v
}

func multipartRequest(t *testing.T, v url.Values, images ...[]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vals := range v {
		for _, val := range vals {
			require.NoError(t, mw.WriteField(k, val))
		}
	}
	for i, img := range images {
		fw, err := mw.CreateFormFile("images", "photo"+string(rune('0'+i))+".png")
		require.NoError(t, err)
		_, _ = fw.Write(img)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/post-ad", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func harness(t *testing.T) *componenttest.Harness {
	h := componenttest.New(t)
	h.Mount(t, New)
	return h
}

func TestShowForm(t *testing.T) {
	h := harness(t)
	rr := h.Get("/post-ad")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	doc := componenttest.Doc(t, rr)
	assert.NotEmpty(t, doc.Find(`input[name="csrf_token"]`).AttrOr("value", ""))
	assert.Equal(t, 10, doc.Find(`select[name="country"] option:not([value=""])`).Length())
	assert.Equal(t, 3, doc.Find(`select[name="gender"] option`).Length())
	assert.Equal(t, 3, doc.Find(`input[name="service_name"]`).Length())
}

func TestSubmitCreatesPendingAd(t *testing.T) {
	h := harness(t)
	v := validValues()
	componenttest.Stamp(v)

	rr := h.Do(multipartRequest(t, v, png, png, png))
	require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())
	assert.Equal(t, "/post-ad/thanks", rr.Header().Get("Location"))

	all, err := h.Store.ListAll(t.Context())
	require.NoError(t, err)
	require.Len(t, all, 1)

	a := all[0]
	assert.Equal(t, ad.Pending, a.Status)
	assert.Equal(t, "Zürich", a.City)
	assert.Equal(t, "Switzerland", a.Country)
	assert.Equal(t, []string{"German", "English"}, []string(a.Languages))
	assert.Equal(t, []ad.Service{{Name: "Dinner date", Included: true}}, []ad.Service(a.Services))
	assert.Equal(t, []ad.Rate{{Time: "1 hour", Incall: "250", Outcall: "300"}}, []ad.Rate(a.Rates))
	assert.Len(t, a.Images, 3)
	assert.Equal(t, 3, h.Images.Len())

	// Pending ads are not public.
	_, ok := h.Deps.Listings.FindAd(t.Context(), a.ID)
	assert.False(t, ok)

	assert.Equal(t, http.StatusOK, h.Get("/post-ad/thanks").Code)
}

func TestSubmitValidationErrors(t *testing.T) {
	h := harness(t)
	v := validValues()
	v.Set("age", "17")
	v.Set("description", "too short")
	componenttest.Stamp(v)

	rr := h.Do(multipartRequest(t, v, png))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	doc := componenttest.Doc(t, rr)
	errs := doc.Find(".field-error").Text()
	assert.Contains(t, errs, "at least 18")
	assert.Contains(t, errs, "at least 50 characters")
	assert.Contains(t, errs, "between 3 and 10 images")
	assert.Equal(t, "Lena", doc.Find(`input[name="name"]`).AttrOr("value", ""), "values are kept")
	assert.Equal(t, "Dinner date", doc.Find(`input[name="service_name"]`).First().AttrOr("value", ""))
	assert.Equal(t, 0, h.Images.Len(), "nothing uploaded before validation passes")
}

func TestSubmitRejectsNonImages(t *testing.T) {
	h := harness(t)
	v := validValues()
	componenttest.Stamp(v)

	rr := h.Do(multipartRequest(t, v, png, png, []byte("<html>not an image</html>")))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, componenttest.Doc(t, rr).Find(".field-error").Text(), "JPEG, PNG, WebP, or GIF")
	assert.Equal(t, 0, h.Images.Len(), "earlier uploads are rolled back")
}

func TestSubmitRejectsOversizedPhoto(t *testing.T) {
	h := harness(t)
	v := validValues()
	componenttest.Stamp(v)

	big := append(append([]byte{}, png...), make([]byte, 8<<20)...)
	rr := h.Do(multipartRequest(t, v, png, png, big))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, componenttest.Doc(t, rr).Find(".field-error").Text(), "8 MB or smaller")
	assert.Equal(t, 0, h.Images.Len())

	a, err := h.Store.ListAll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, a)
}

func TestSubmitStoreFailureRemovesImages(t *testing.T) {
	h := harness(t)
	h.Store.FailWith(assert.AnError)
	v := validValues()
	componenttest.Stamp(v)

	rr := h.Do(multipartRequest(t, v, png, png, png))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, componenttest.Doc(t, rr).Find(".form-error").Text(), "could not save")
	assert.Equal(t, 0, h.Images.Len())
}

func TestSubmitRequiresCSRF(t *testing.T) {
	h := harness(t)
	v := validValues()
	v.Set(form.FieldCSRF, "forged")
	v.Set(form.FieldRenderTS, "1")

	rr := h.Do(multipartRequest(t, v, png, png, png))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, componenttest.Doc(t, rr).Find(".form-error").Text(), "Security token invalid")
	assert.Equal(t, 0, h.Images.Len())
}

func TestSubmitNotMultipart(t *testing.T) {
	h := harness(t)
	rr := h.PostForm("/post-ad", validValues())
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDecodeDropsBlankRows(t *testing.T) {
	v := url.Values{
		"service_name":       {"", "Massage", ""},
		"service_extra":      {"", "50", ""},
		"service_included_2": {"1"},
		"rate_time":          {"", "2 hours"},
		"rate_incall":        {"", "400"},
	}
	s := decode(v)
	assert.Equal(t, []ad.Service{{Name: "Massage", ExtraPrice: "50"}, {Included: true}}, s.Services)
	assert.Equal(t, []ad.Rate{{Time: "2 hours", Incall: "400"}}, s.Rates)
}
