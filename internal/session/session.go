// internal/session/session.go
//
// Signed admin session cookie.
//
// Context
//   The admin dashboard needs a logged-in marker that the server can verify
//   on every privileged request.  The cookie carries an HS256 JWT whose
//   subject is the admin username; nothing in it is trusted until the
//   signature, algorithm, and expiry check out.
//
// Workflow
//   • Issue  – after credential verification, sign claims and set the cookie.
//   • Verify – parse the cookie, return ErrNoSession or ErrInvalidToken.
//   • Clear  – expire the cookie on logout.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultCookie is used when Options.Cookie is empty.
const DefaultCookie = "escortde_admin"

const issuer = "escortde"

var (
	// ErrNoSession means the request carries no session cookie.
	ErrNoSession = errors.New("session: no session")
	// ErrInvalidToken means the cookie is present but fails verification.
	ErrInvalidToken = errors.New("session: invalid token")
)

// Options configure a Manager.
type Options struct {
	Secret []byte
	TTL    time.Duration
	Cookie string
	Path   string
	Secure bool
}

// Claims are the verified contents of a session token.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager signs and verifies session cookies.
type Manager struct {
	opts Options
	now  func() time.Time
}

// New validates opts and returns a Manager.  The secret must be at least
// 32 bytes.
func New(opts Options) (*Manager, error) {
	if len(opts.Secret) < 32 {
		return nil, fmt.Errorf("session: secret must be at least 32 bytes")
	}
	if opts.TTL <= 0 {
		opts.TTL = 12 * time.Hour
	}
	if opts.Cookie == "" {
		opts.Cookie = DefaultCookie
	}
	if opts.Path == "" {
		opts.Path = "/"
	}
	return &Manager{opts: opts, now: time.Now}, nil
}

// Issue signs a token for subject and sets it as an HttpOnly cookie.
func (m *Manager) Issue(w http.ResponseWriter, subject string) error {
	now := m.now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.opts.TTL)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.opts.Secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.Cookie,
		Value:    tok,
		Path:     m.opts.Path,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  now.Add(m.opts.TTL),
	})
	return nil
}

// Verify returns the claims carried by r's session cookie.
func (m *Manager) Verify(r *http.Request) (*Claims, error) {
	c, err := r.Cookie(m.opts.Cookie)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(c.Value, claims,
		func(*jwt.Token) (any, error) { return m.opts.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || claims.Subject == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.Cookie,
		Value:    "",
		Path:     m.opts.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
