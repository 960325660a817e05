// internal/form/validate.go
//
// Form-level checks and the user-error type.
//
// Context
//   Handlers parse their own fields (the ad form is multipart with repeated
//   inputs, which a generic field table fits poorly) but share three things:
//   CSRF verification, the render-timestamp check that filters naive bots,
//   and ValidationError, which carries per-field messages back to the
//   template instead of turning into a 500.
//
// Style
//   Comments follow the house guide: full sentences, two space spacing,
//   Oxford comma.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"net/url"
	"strconv"
	"time"
)

// Field names for the hidden inputs every form carries.
const (
	FieldCSRF     = "csrf_token"
	FieldRenderTS = "render_ts"
)

// Timing window for public forms.
var (
	MinFillTime = 2 * time.Second
	MaxFillTime = 30 * time.Minute
)

// -----------------------------------------------------------------------------
// Error types
// -----------------------------------------------------------------------------

// ErrorField describes a single validation failure so the template can render
// a field-level message.  Name is empty for form-level problems.
type ErrorField struct {
	Name    string
	Message string
}

// ValidationError wraps []ErrorField and satisfies the error interface.
type ValidationError struct{ Fields []ErrorField }

func (ve ValidationError) Error() string { return "form validation failed" }

// For returns the message for the named field, or "".
func (ve ValidationError) For(name string) string {
	for _, f := range ve.Fields {
		if f.Name == name {
			return f.Message
		}
	}
	return ""
}

// IsValidationError reports whether err is a user input error.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// AsValidationError extracts the ValidationError from err.
func AsValidationError(err error) (ValidationError, bool) {
	var ve ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// -----------------------------------------------------------------------------
// Form-level checks
// -----------------------------------------------------------------------------

// Stamp is the pair of hidden values a template embeds in each form.
type Stamp struct {
	Token    string
	RenderTS string
}

// NewStamp issues a CSRF token and the current render timestamp.
func NewStamp() (Stamp, error) {
	tok, err := GenerateToken()
	if err != nil {
		return Stamp{}, err
	}
	return Stamp{Token: tok, RenderTS: strconv.FormatInt(time.Now().UnixMicro(), 10)}, nil
}

// CheckCSRF verifies the posted token.
func CheckCSRF(posted url.Values) error {
	if !VerifyToken(posted.Get(FieldCSRF)) {
		return ValidationError{Fields: []ErrorField{{
			Message: "Security token invalid.  Please refresh and try again.",
		}}}
	}
	return nil
}

// CheckPublic runs CSRF and timing checks for anonymous forms.
func CheckPublic(posted url.Values) error {
	if err := CheckCSRF(posted); err != nil {
		return err
	}
	if msg := checkTiming(posted.Get(FieldRenderTS)); msg != "" {
		return ValidationError{Fields: []ErrorField{{Message: msg}}}
	}
	return nil
}

// checkTiming ensures the form was not submitted suspiciously fast or too late.
// Returns empty string on success, user-visible message on failure.
func checkTiming(tsRaw string) string {
	if tsRaw == "" {
		return "Timestamp missing.  Please reload the page."
	}
	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return "Bad timestamp.  Please retry."
	}
	delta := time.Since(time.UnixMicro(ts))
	switch {
	case delta < MinFillTime:
		return "Form submitted too quickly.  Please enter the fields manually."
	case delta > MaxFillTime:
		return "Form expired.  Please reload and submit again."
	default:
		return ""
	}
}
