// cmd/escortd/router.go
//
// Root handler.
//
// Request life-cycle
// ------------------
//
//  1. chi RequestID and Recoverer.
//
//  2. requestinfo.Enrich attaches client IP, UA facts, and the visitor
//     country.  Forwarding headers count only from opts.Proxies.
//
//  3. AccessLog records the finished request.
//
//  4. ForceHTTPS 308-redirects plain-HTTP requests (skipping localhost).
//
//  5. Security headers, then routing.Legacy rewrites old URL shapes.
//
//  6. Component routes, /metrics, /healthz, and local uploads.
//
// Unknown paths render the non-indexable 404 page.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/escortde/internal/component"
	"github.com/yanizio/escortde/internal/middleware"
	"github.com/yanizio/escortde/internal/requestinfo"
	"github.com/yanizio/escortde/internal/routing"
)

type routerOptions struct {
	ForceHTTPS  bool
	Geo         requestinfo.GeoLookup
	Proxies     requestinfo.Proxies
	Health      func(context.Context) error // nil means always healthy
	UploadsPath string                      // URL prefix for local images, "" when unused
	UploadsDir  string
}

func newRouter(d *component.Deps, opts routerOptions) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.Recoverer)
	r.Use(requestinfo.Enrich(opts.Geo, opts.Proxies))
	r.Use(middleware.AccessLog)
	r.Use(middleware.ForceHTTPS(opts.ForceHTTPS))
	r.Use(middleware.Security)
	r.Use(routing.Legacy)

	if err := component.Mount(r, d); err != nil {
		return nil, err
	}

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthz(opts.Health))

	if opts.UploadsPath != "" && opts.UploadsDir != "" {
		fs := http.StripPrefix(opts.UploadsPath, http.FileServer(http.Dir(opts.UploadsDir)))
		r.Handle(opts.UploadsPath+"/*", cacheForever(fs))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		d.NotFound(w, "route")
	})
	return r, nil
}

func healthz(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				zap.L().Warn("health check failed", zap.Error(err))
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		_, _ = w.Write([]byte("ok"))
	}
}

// cacheForever marks uploaded images immutable; keys are never reused.
func cacheForever(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		next.ServeHTTP(w, r)
	})
}
