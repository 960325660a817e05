// internal/ad/submission.go
//
// Public ad submission: normalization, validation, and conversion to Ad.
//
// Rules
// -----
//   - name, country, city, and phone are required.
//   - age must parse as an integer of at least 18.
//   - description must be at least 50 characters after trimming.
//   - between 3 and 10 images.
//   - country must be on the supported allow-list.
//   - gender must be a current category.
//
// Validation runs before any image is uploaded, so ImageCount is checked
// rather than the final URL list.
package ad

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yanizio/escortde/internal/form"
)

// Limits shared with the form template.
const (
	MinAge         = 18
	MinDescription = 50
	MinImages      = 3
	MaxImages      = 10
)

// Submission is the decoded post-ad form.
type Submission struct {
	Name        string    `form:"name"        validate:"required,max=80"`
	Age         string    `form:"age"         validate:"required,adult"`
	Gender      Gender    `form:"gender"      validate:"required,current_gender"`
	Country     string    `form:"country"     validate:"required,supported_country"`
	City        string    `form:"city"        validate:"required,max=80"`
	Phone       string    `form:"phone"       validate:"required,max=40"`
	Email       string    `form:"email"       validate:"omitempty,email,max=120"`
	WhatsApp    string    `form:"whatsapp"    validate:"max=40"`
	Telegram    string    `form:"telegram"    validate:"max=60"`
	Instagram   string    `form:"instagram"   validate:"max=60"`
	Twitter     string    `form:"twitter"     validate:"max=60"`
	HairColor   string    `form:"hair_color"  validate:"max=40"`
	Languages   []string  `form:"languages"   validate:"max=12,dive,max=40"`
	Description string    `form:"description" validate:"min_chars=50,max=5000"`
	Services    []Service `form:"services"    validate:"max=40,dive"`
	Rates       []Rate    `form:"rates"       validate:"max=20,dive"`
	ImageCount  int       `form:"images"      validate:"min=3,max=10"`
}

var (
	validate = newValidator()

	messages = map[string]string{
		"name":        "Name is required.",
		"age":         "You must be at least 18 years old.",
		"gender":      "Please choose a category.",
		"country":     "Please choose a supported country.",
		"city":        "City is required.",
		"phone":       "Phone number is required.",
		"email":       "Please enter a valid e-mail address.",
		"description": "Description must be at least 50 characters.",
		"images":      "Please upload between 3 and 10 images.",
		"services":    "Every service needs a name.",
		"rates":       "Every rate needs a duration.",
	}
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return strings.ToLower(f.Name)
	})
	_ = v.RegisterValidation("adult", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n >= MinAge
	})
	_ = v.RegisterValidation("current_gender", func(fl validator.FieldLevel) bool {
		return Gender(fl.Field().String()).Current()
	})
	_ = v.RegisterValidation("supported_country", func(fl validator.FieldLevel) bool {
		_, ok := LookupCountry(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("min_chars", func(fl validator.FieldLevel) bool {
		n, _ := strconv.Atoi(fl.Param())
		return utf8.RuneCountInString(fl.Field().String()) >= n
	})
	return v
}

// Normalize trims every text field and drops empty list entries.
func (s *Submission) Normalize() {
	for _, p := range []*string{
		&s.Name, &s.Age, &s.Country, &s.City, &s.Phone, &s.Email, &s.WhatsApp,
		&s.Telegram, &s.Instagram, &s.Twitter, &s.HairColor, &s.Description,
	} {
		*p = strings.TrimSpace(*p)
	}
	s.Gender = Gender(strings.TrimSpace(string(s.Gender)))

	langs := s.Languages[:0]
	for _, l := range s.Languages {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	s.Languages = langs

	if c, ok := LookupCountry(s.Country); ok {
		s.Country = c.Name
	}
}

// Validate returns a form.ValidationError listing every failing field, or
// nil.  Call Normalize first.
func (s *Submission) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	seen := map[string]bool{}
	var fields []form.ErrorField
	for _, fe := range verrs {
		name := topField(fe.Namespace())
		if seen[name] {
			continue
		}
		seen[name] = true
		msg, ok := messages[name]
		if !ok {
			msg = "Invalid value."
		}
		fields = append(fields, form.ErrorField{Name: name, Message: msg})
	}
	return form.ValidationError{Fields: fields}
}

// topField maps "Submission.services[2].name" to "services".
func topField(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.IndexAny(ns, ".["); i >= 0 {
		ns = ns[:i]
	}
	return ns
}

// ToAd builds the pending Ad.  images are the stored object URLs.
func (s *Submission) ToAd(images []string) *Ad {
	return &Ad{
		ID:          uuid.NewString(),
		Name:        s.Name,
		Age:         s.Age,
		Gender:      s.Gender,
		City:        s.City,
		Country:     s.Country,
		Phone:       s.Phone,
		Email:       s.Email,
		WhatsApp:    s.WhatsApp,
		Telegram:    s.Telegram,
		Instagram:   s.Instagram,
		Twitter:     s.Twitter,
		HairColor:   s.HairColor,
		Languages:   List[string](s.Languages),
		Description: s.Description,
		Services:    List[Service](s.Services),
		Rates:       List[Rate](s.Rates),
		Images:      List[string](images),
		Status:      Pending,
		SubmittedAt: time.Now().UTC(),
	}
}

// ContactForm is the decoded public contact form.
type ContactForm struct {
	Name        string `form:"name"        validate:"required,max=80"`
	Subject     string `form:"subject"     validate:"required,max=160"`
	Description string `form:"description" validate:"min_chars=10,max=5000"`
}

var contactMessages = map[string]string{
	"name":        "Name is required.",
	"subject":     "Subject is required.",
	"description": "Message must be at least 10 characters.",
}

// Validate trims the fields and checks them.
func (c *ContactForm) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Subject = strings.TrimSpace(c.Subject)
	c.Description = strings.TrimSpace(c.Description)

	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var fields []form.ErrorField
	for _, fe := range verrs {
		name := topField(fe.Namespace())
		fields = append(fields, form.ErrorField{Name: name, Message: contactMessages[name]})
	}
	return form.ValidationError{Fields: fields}
}

// ToSubmission builds the pending ContactSubmission.
func (c *ContactForm) ToSubmission() *ContactSubmission {
	return &ContactSubmission{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Subject:     c.Subject,
		Description: c.Description,
		SubmittedAt: time.Now().UTC(),
		Status:      ContactPending,
	}
}
