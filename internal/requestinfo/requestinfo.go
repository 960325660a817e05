//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight per-request metadata: a user-agent fingerprint, client IP,
//  a best-effort visitor country, and the arrival time.  The struct is
//  inert, so it is safe to log.
//
//  Consumers
//  • middleware.AccessLog   – bot flag and device class in every line.
//  • components/listing     – visitor country pre-selects the home nav.
//  • middleware.RateLimit   – client IP as the bucket key.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup)
//

package requestinfo

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// Info is attached to every request by Enrich.
type Info struct {
	IP         net.IP
	CountryISO string // "DE", "CH", ...; empty when unknown
	Browser    string // "Chrome", "Firefox", ...
	OS         string // "Windows", "iOS", ...
	Device     string // "Desktop", "Phone", "Tablet", "Bot", ...
	Bot        bool
	Lang       string // first Accept-Language tag, lower-case
	Timestamp  time.Time
}

// GeoLookup maps an IP to an ISO 3166-1 alpha-2 country code.
type GeoLookup interface {
	CountryISO(ip net.IP) string
}

//
//  -----------------------------
//  MaxMind reader
//  -----------------------------
//

// GeoDB wraps a GeoLite2 Country or City database.  It is safe for
// concurrent reads, which is all we ever perform.
type GeoDB struct {
	r *geoip2.Reader
}

// OpenGeo opens the database at path.
func OpenGeo(path string) (*GeoDB, error) {
	r, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &GeoDB{r: r}, nil
}

// CountryISO returns the country code for ip or "".
func (g *GeoDB) CountryISO(ip net.IP) string {
	if g == nil || g.r == nil || ip == nil {
		return ""
	}
	rec, err := g.r.Country(ip)
	if err != nil {
		return ""
	}
	return rec.Country.IsoCode
}

// Close releases the memory-mapped file.
func (g *GeoDB) Close() error {
	if g == nil || g.r == nil {
		return nil
	}
	return g.r.Close()
}

//
//  -----------------------------
//  Public helper: FromContext
//  -----------------------------
//

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the value stored by Enrich, or nil.
func FromContext(ctx context.Context) *Info {
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

// NewContext stores info in ctx.  Tests use it to fake a visitor.
func NewContext(ctx context.Context, info *Info) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

// parseUA fills the UA-derived fields using uasurfer.
func parseUA(info *Info, header string) {
	u := uasurfer.Parse(header)

	info.Browser = strings.TrimPrefix(u.Browser.Name.String(), "Browser")
	info.OS = strings.TrimPrefix(u.OS.Name.String(), "OS")
	if info.OS == "MacOSX" {
		info.OS = "macOS"
	}
	info.Device = deviceName(u.DeviceType)
	info.Bot = u.IsBot()
}

// deviceName maps uasurfer.DeviceType to a log-friendly string.
func deviceName(dt uasurfer.DeviceType) string {
	switch dt {
	case uasurfer.DeviceComputer:
		return "Desktop"
	case uasurfer.DevicePhone:
		return "Phone"
	case uasurfer.DeviceTablet:
		return "Tablet"
	case uasurfer.DeviceConsole:
		return "Console"
	case uasurfer.DeviceWearable:
		return "Wearable"
	case uasurfer.DeviceTV:
		return "TV"
	default:
		return "Unknown"
	}
}

// primaryLang extracts the first language tag before any ";q=" rule.
func primaryLang(al string) string {
	if al == "" {
		return ""
	}
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.ToLower(strings.TrimSpace(tag))
}
