// internal/acl/middleware.go
//
// Chi middleware that gates the admin surface.
//
// Every privileged request is verified server-side: the session cookie
// must carry a valid signed token.  Failures never reach the handler.
// Browsers asking for a page are sent to the login form; anything else
// gets a bare 401.

package acl

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/escortde/internal/auth"
	"github.com/yanizio/escortde/internal/session"
)

// Verifier checks a request's session.
type Verifier interface {
	Verify(r *http.Request) (*session.Claims, error)
}

// RequireAdmin attaches the verified admin name to the context or rejects
// the request.  loginPath is where GET requests are redirected.
func RequireAdmin(v Verifier, loginPath string) func(http.Handler) http.Handler {
	if v == nil {
		panic("acl.RequireAdmin: verifier must not be nil")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := v.Verify(r)
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) {
					zap.L().Warn("admin session rejected",
						zap.String("path", r.URL.Path), zap.Error(err))
				}
				deny(w, r, loginPath)
				return
			}
			ctx := auth.WithAdmin(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, loginPath string) {
	w.Header().Set("Cache-Control", "no-store")
	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && loginPath != "" {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}
	http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
}
