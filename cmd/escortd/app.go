// cmd/escortd/app.go
//
// Process-wide resources built once at startup.
//
// Workflow
// --------
//  1. Store: SQL over MySQL or Postgres, or the in-process Memory store
//     when database.driver is "memory".
//  2. Images: S3 (or any S3-compatible endpoint), a local directory served
//     under images.public_url, or Memory.
//  3. Redis rate limiter, when redis.addr is set.  A Redis that is down at
//     boot disables limiting with a warning rather than blocking startup.
//  4. MaxMind country database, when geo.db_path is set.
//  5. Views, sessions, page cache, listing resolver, and moderation service
//     are assembled into component.Deps.
//
// Every opened resource registers a closer; Close runs them in reverse.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/escortde/internal/auth"
	"github.com/yanizio/escortde/internal/component"
	"github.com/yanizio/escortde/internal/config"
	"github.com/yanizio/escortde/internal/database"
	"github.com/yanizio/escortde/internal/imagestore"
	"github.com/yanizio/escortde/internal/listing"
	"github.com/yanizio/escortde/internal/middleware"
	"github.com/yanizio/escortde/internal/moderation"
	"github.com/yanizio/escortde/internal/pagecache"
	"github.com/yanizio/escortde/internal/requestinfo"
	"github.com/yanizio/escortde/internal/session"
	"github.com/yanizio/escortde/internal/store"
	"github.com/yanizio/escortde/internal/view"
)

// defaultUploadsPath is where local images are served when
// images.public_url is empty.
const defaultUploadsPath = "/uploads"

type resources struct {
	deps        *component.Deps
	geo         requestinfo.GeoLookup
	health      func(context.Context) error
	uploadsPath string
	uploadsDir  string
	closers     []func() error
}

// Close releases resources in reverse order of opening.
func (r *resources) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			zap.L().Warn("close resource", zap.Error(err))
		}
	}
}

func open(ctx context.Context, cfg *config.Config) (_ *resources, err error) {
	res := &resources{health: func(context.Context) error { return nil }}
	defer func() {
		if err != nil {
			res.Close()
		}
	}()

	st, err := openStore(cfg, res)
	if err != nil {
		return nil, err
	}

	imgs, err := openImages(ctx, cfg, res)
	if err != nil {
		return nil, err
	}

	var limit func(http.Handler) http.Handler
	counter, err := middleware.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	switch {
	case err != nil:
		zap.L().Warn("rate limiting disabled", zap.Error(err))
	case counter != nil:
		res.closers = append(res.closers, counter.Close)
		limit = middleware.RateLimit(counter, cfg.Redis.SubmitLimit, cfg.Redis.Window)
	}

	if cfg.Geo.DBPath != "" {
		g, gerr := requestinfo.OpenGeo(cfg.Geo.DBPath)
		if gerr != nil {
			zap.L().Warn("geo lookup disabled", zap.String("path", cfg.Geo.DBPath), zap.Error(gerr))
		} else {
			res.geo = g
			res.closers = append(res.closers, g.Close)
		}
	}

	views, err := view.New(view.Site{
		Name:          cfg.SEO.SiteName,
		BaseURL:       strings.TrimRight(cfg.HTTP.BaseURL, "/"),
		FallbackImage: cfg.SEO.FallbackImage,
		AdminPath:     cfg.Admin.Path,
	})
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	sessions, err := session.New(session.Options{
		Secret: []byte(cfg.Session.Secret),
		TTL:    cfg.Session.TTL,
		Cookie: cfg.Session.Cookie,
		Path:   cfg.Admin.Path,
		Secure: strings.HasPrefix(cfg.HTTP.BaseURL, "https://"),
	})
	if err != nil {
		return nil, err
	}

	// A nil *Cache must not reach moderation.New as a non-nil Purger.
	var pages *pagecache.Cache
	var purger moderation.Purger
	if cfg.Cache.TTL > 0 {
		pages = pagecache.New(cfg.Cache.TTL, cfg.Cache.Entries)
		purger = pages
	}

	res.deps = &component.Deps{
		Store:         st,
		Listings:      listing.New(st),
		Moderation:    moderation.New(st, purger, imgs),
		Images:        imgs,
		Views:         views,
		Sessions:      sessions,
		Admin:         auth.Credentials{Username: cfg.Admin.Username, PasswordHash: cfg.Admin.PasswordHash},
		Pages:         pages,
		Limit:         limit,
		AllowIndexing: cfg.SEO.AllowIndexing,
	}
	return res, nil
}

// sqlDriver maps the config driver name onto a registered database/sql
// driver.
func sqlDriver(name string) string {
	if name == "postgres" {
		return database.DriverPostgres
	}
	return name
}

func openStore(cfg *config.Config, res *resources) (store.Store, error) {
	if cfg.Database.Driver == "memory" {
		zap.L().Warn("using in-memory store; data is lost on restart")
		return store.NewMemory(), nil
	}

	maxOpen, maxIdle := cfg.Database.MaxOpen, cfg.Database.MaxIdle
	if maxOpen == 0 {
		maxOpen = 15
	}
	if maxIdle == 0 {
		maxIdle = 5
	}
	db, err := database.OpenWithOptions(sqlDriver(cfg.Database.Driver), cfg.Database.DSN, maxOpen, maxIdle)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	res.closers = append(res.closers, db.Close)
	res.health = db.PingContext
	zap.L().Info("database online", zap.String("driver", db.DriverName()))
	return store.NewSQL(db), nil
}

func openImages(ctx context.Context, cfg *config.Config, res *resources) (imagestore.Store, error) {
	ic := cfg.Images
	switch ic.Driver {
	case "local":
		public := ic.PublicURL
		if public == "" {
			public = defaultUploadsPath
		}
		l, err := imagestore.NewLocal(ic.LocalDir, public)
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(public, "/") {
			res.uploadsPath, res.uploadsDir = l.PublicURL, l.Dir
		}
		return l, nil
	case "memory":
		return imagestore.NewMemory(), nil
	}

	s, err := imagestore.NewS3(ctx, imagestore.S3Options{
		Bucket:    ic.Bucket,
		Region:    ic.Region,
		Endpoint:  ic.Endpoint,
		PublicURL: ic.PublicURL,
		AccessKey: ic.AccessKey,
		SecretKey: ic.SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("image store: %w", err)
	}
	return s, nil
}
