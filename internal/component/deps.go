// internal/component/deps.go
//
// Shared resources handed to every component.
//
// Context
// -------
// One Deps value is built at startup and passed to each Factory.  Optional
// members are nil when their feature is disabled: Pages without a cache
// TTL, Limit without Redis.  The helpers below hide that so handlers never
// branch on it.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package component

import (
	"net/http"
	"time"

	"github.com/yanizio/escortde/internal/auth"
	"github.com/yanizio/escortde/internal/imagestore"
	"github.com/yanizio/escortde/internal/listing"
	"github.com/yanizio/escortde/internal/moderation"
	"github.com/yanizio/escortde/internal/pagecache"
	"github.com/yanizio/escortde/internal/session"
	"github.com/yanizio/escortde/internal/store"
	"github.com/yanizio/escortde/internal/view"
)

// Deps exposes process-wide resources to components.
type Deps struct {
	Store      store.Store
	Listings   *listing.Resolver
	Moderation *moderation.Service
	Images     imagestore.Store
	Views      *view.Engine

	Sessions *session.Manager
	Admin    auth.Credentials

	Pages *pagecache.Cache                  // nil disables page caching
	Limit func(http.Handler) http.Handler // nil disables rate limiting

	AllowIndexing bool
	Now           func() time.Time
}

// Site is shorthand for Views.Site().
func (d *Deps) Site() view.Site { return d.Views.Site() }

// Cached wraps public GET handlers with the page cache.
func (d *Deps) Cached(key pagecache.KeyFunc) func(http.Handler) http.Handler {
	if d.Pages == nil {
		return passThrough
	}
	return d.Pages.Middleware(key)
}

// Limited wraps POST handlers with the rate limiter.
func (d *Deps) Limited() func(http.Handler) http.Handler {
	if d.Limit == nil {
		return passThrough
	}
	return d.Limit
}

// Clock returns the configured time source.
func (d *Deps) Clock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func passThrough(h http.Handler) http.Handler { return h }
