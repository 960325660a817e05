// internal/config/model.go
//
// Typed configuration model for escortd.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                            – dotenv values,
//   • `conf/global.yaml`                         – primary static file,
//   • `ESCORTDE_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with `vault:` is resolved through the
// Vault client before unmarshalling, so the model never stores Vault
// URIs, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.  BaseURL is the absolute origin used for
// canonical links, the sitemap, and robots.txt.  TrustedProxies lists the
// load balancers whose X-Forwarded-For is believed; empty trusts nobody.
type HTTP struct {
	ListenAddr     string   `koanf:"listen_addr"     validate:"required,hostname_port"`
	ForceHTTPS     bool     `koanf:"force_https"`
	BaseURL        string   `koanf:"base_url"        validate:"required,url"`
	TrustedProxies []string `koanf:"trusted_proxies" validate:"dive,cidr|ip"`
}

//
// Database section
//

// Database selects the SQL driver.  `memory` runs the in-process store and
// needs no DSN.
type Database struct {
	Driver  string `koanf:"driver"   validate:"oneof=mysql pgx postgres memory"`
	DSN     string `koanf:"dsn"      validate:"required_unless=Driver memory"`
	MaxOpen int    `koanf:"max_open" validate:"gte=0"`
	MaxIdle int    `koanf:"max_idle" validate:"gte=0"`
}

//
// Admin and session sections
//

// Admin is the single operator account.  PasswordHash is a bcrypt hash
// produced by `escortd hashpw`.
type Admin struct {
	Path         string `koanf:"path"          validate:"required,startswith=/"`
	Username     string `koanf:"username"      validate:"required"`
	PasswordHash string `koanf:"password_hash" validate:"required,startswith=$2"`
}

// Session configures the signed admin cookie.
type Session struct {
	Secret string        `koanf:"secret" validate:"required,min=32"`
	TTL    time.Duration `koanf:"ttl"`
	Cookie string        `koanf:"cookie"`
}

// CSRF holds the HMAC key for form tokens.
type CSRF struct {
	Secret string `koanf:"secret" validate:"required,min=32"`
}

//
// Images section
//

// Images selects where ad photos are stored.
type Images struct {
	Driver    string `koanf:"driver"     validate:"oneof=s3 local memory"`
	Bucket    string `koanf:"bucket"     validate:"required_if=Driver s3"`
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"   validate:"omitempty,url"`
	PublicURL string `koanf:"public_url"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	LocalDir  string `koanf:"local_dir"  validate:"required_if=Driver local"`
}

//
// Redis section
//

// Redis backs the submission rate limiter.  An empty Addr disables it.
type Redis struct {
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"           validate:"gte=0"`
	SubmitLimit int           `koanf:"submit_limit" validate:"gte=0"`
	Window      time.Duration `koanf:"window"`
}

//
// Geo, SEO, cache, and log sections
//

// Geo points at an optional MaxMind country database.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

// SEO holds site-wide search-engine settings.
type SEO struct {
	SiteName      string `koanf:"site_name"`
	AllowIndexing bool   `koanf:"allow_indexing"`
	FallbackImage string `koanf:"fallback_image" validate:"omitempty,url"`
}

// Cache sizes the public page cache.  TTL 0 disables it.
type Cache struct {
	TTL     time.Duration `koanf:"ttl"`
	Entries int           `koanf:"entries" validate:"gte=0"`
}

// Log controls the file logger.  Zero rotation values use the logger's
// defaults.
type Log struct {
	Level       string `koanf:"level"        validate:"oneof=debug info warn error"`
	SplitAccess bool   `koanf:"split_access"`
	MaxSizeMB   int    `koanf:"max_size_mb"  validate:"gte=0"`
	MaxBackups  int    `koanf:"max_backups"  validate:"gte=0"`
	MaxAgeDays  int    `koanf:"max_age_days" validate:"gte=0"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // ESCORTDE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Admin    Admin    `koanf:"admin"`
	Session  Session  `koanf:"session"`
	CSRF     CSRF     `koanf:"csrf"`
	Images   Images   `koanf:"images"`
	Redis    Redis    `koanf:"redis"`
	Geo      Geo      `koanf:"geo"`
	SEO      SEO      `koanf:"seo"`
	Cache    Cache    `koanf:"cache"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}

// applyDefaults fills zero values that have a sensible default.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Admin.Path == "" {
		c.Admin.Path = "/adm2211"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 12 * time.Hour
	}
	if c.Images.Driver == "" {
		c.Images.Driver = "s3"
	}
	if c.Images.Bucket == "" && c.Images.Driver == "s3" {
		c.Images.Bucket = "ad-images"
	}
	if c.Redis.SubmitLimit == 0 {
		c.Redis.SubmitLimit = 10
	}
	if c.Redis.Window == 0 {
		c.Redis.Window = time.Minute
	}
	if c.SEO.SiteName == "" {
		c.SEO.SiteName = "Escort Directory"
	}
	if c.SEO.FallbackImage == "" {
		c.SEO.FallbackImage = "https://i.ibb.co/GQPtQvJB/image.jpg"
	}
	if c.Cache.Entries == 0 {
		c.Cache.Entries = 2000
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
