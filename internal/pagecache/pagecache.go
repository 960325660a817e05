// internal/pagecache/pagecache.go
//
// Render cache for public GET pages.
//
// Context
// -------
// Public pages are rebuilt at most once per TTL window (60 s by default).
// Entries live in a bounded LRU; concurrent misses for one key collapse
// into a single render through singleflight.  There is no evictor
// goroutine: expiry is checked on read, and LRU pressure trims on write.
//
// Moderation calls Purge so an approval is visible on the very next read.
// A render that started before a Purge is served to its waiters but not
// stored, so stale output never outlives the purge.
//
// Notes
// -----
// • Only 200 responses are cached.  Redirects and 404s always re-run.
// • Oxford commas, two spaces after periods.
package pagecache

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/escortde/internal/cache"
	"github.com/yanizio/escortde/internal/metrics"
)

// Defaults used when config leaves the values at zero.
const (
	DefaultTTL        = 60 * time.Second
	DefaultMaxEntries = 2000
)

// Page is one captured response.
type Page struct {
	Status      int
	ContentType string
	Body        []byte
}

type entry struct {
	page    Page
	expires time.Time
}

// Cache holds rendered pages keyed by request.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu  sync.Mutex
	lru *cache.LRU[string, entry]
	gen uint64

	sfg singleflight.Group
}

// New returns a cache.  Non-positive arguments fall back to the defaults.
func New(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		ttl: ttl,
		now: time.Now,
		lru: cache.New[string, entry](maxEntries),
	}
}

// Get returns the cached page for key or renders it with fill.
func (c *Cache) Get(key string, fill func() (Page, error)) (Page, error) {
	if p, ok := c.lookup(key); ok {
		metrics.PageCacheHitsTotal.Inc()
		return p, nil
	}
	metrics.PageCacheMissesTotal.Inc()

	v, err, _ := c.sfg.Do(key, func() (any, error) {
		// Double-check after singleflight barrier.
		if p, ok := c.lookup(key); ok {
			return p, nil
		}
		c.mu.Lock()
		gen := c.gen
		c.mu.Unlock()

		p, err := fill()
		if err != nil {
			return Page{}, err
		}
		if p.Status == http.StatusOK {
			c.store(key, p, gen)
		}
		return p, nil
	})
	if err != nil {
		return Page{}, err
	}
	return v.(Page), nil
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.gen++
	c.lru.Purge()
	c.mu.Unlock()
	metrics.PageCacheEntries.Set(0)
}

// Len reports the number of stored pages, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *Cache) lookup(key string) (Page, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lru.Get(key)
	if !ok {
		return Page{}, false
	}
	if c.now().After(e.expires) {
		c.lru.Remove(key)
		metrics.PageCacheEntries.Set(float64(c.lru.Len()))
		return Page{}, false
	}
	return e.page, true
}

func (c *Cache) store(key string, p Page, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.lru.Add(key, entry{page: p, expires: c.now().Add(c.ttl)})
	metrics.PageCacheEntries.Set(float64(c.lru.Len()))
}

/*──────────────────────────── middleware ──────────────────────────────────*/

// KeyFunc derives the cache key for a request.
type KeyFunc func(*http.Request) string

// URLKey keys on path and raw query.
func URLKey(r *http.Request) string { return r.URL.RequestURI() }

// Middleware serves GET and HEAD requests from the cache.  A nil key uses
// URLKey.
func (c *Cache) Middleware(key KeyFunc) func(http.Handler) http.Handler {
	if key == nil {
		key = URLKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			var passthrough bool
			p, err := c.Get(key(r), func() (Page, error) {
				rec := &recorder{header: http.Header{}, status: http.StatusOK}
				next.ServeHTTP(rec, r)
				if rec.status != http.StatusOK {
					// Non-200 responses go straight to the client.
					passthrough = true
					copyHeader(w.Header(), rec.header)
					w.WriteHeader(rec.status)
					_, _ = w.Write(rec.body.Bytes())
				}
				return Page{
					Status:      rec.status,
					ContentType: rec.header.Get("Content-Type"),
					Body:        rec.body.Bytes(),
				}, nil
			})
			if err != nil || passthrough {
				return
			}
			if p.Status != http.StatusOK {
				// A concurrent waiter received another request's non-200
				// result; render fresh instead.
				next.ServeHTTP(w, r)
				return
			}
			if p.ContentType != "" {
				w.Header().Set("Content-Type", p.ContentType)
			}
			w.WriteHeader(p.Status)
			if r.Method != http.MethodHead {
				_, _ = w.Write(p.Body)
			}
		})
	}
}

type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
	wrote  bool
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(code int) {
	if r.wrote {
		return
	}
	r.status = code
	r.wrote = true
}

func (r *recorder) Write(b []byte) (int, error) {
	r.wrote = true
	return r.body.Write(b)
}

func copyHeader(dst, src http.Header) {
	for k, vv := range src {
		dst[k] = append([]string(nil), vv...)
	}
}
