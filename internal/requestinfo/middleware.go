// internal/requestinfo/middleware.go
//
// HTTP middleware that enriches each request with *Info.
//
/*
Context
--------
This handler sits first in the chain, ahead of the access log, security
headers, and the legacy redirect table.  For every request it:

  1. Parses the User-Agent header and Accept-Language list.
  2. Resolves the client IP through Proxies.ClientIP, so forwarding
     headers count only when a trusted proxy sent them.
  3. Looks the IP up in the GeoLite2 database when one is configured.
  4. Stores *Info in the request context so handlers and middleware can
     read it without reparsing.

Notes
-----
  • A nil GeoLookup disables geolocation; CountryISO stays empty.
  • Oxford commas, two spaces after periods.  No em dash.
*/
package requestinfo

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

/*──────────────────────────── middleware ───────────────────────────────────*/

// Enrich returns middleware that attaches *Info and forwards.
func Enrich(geo GeoLookup, proxies Proxies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := &Info{
				IP:        proxies.ClientIP(r),
				Lang:      primaryLang(r.Header.Get("Accept-Language")),
				Timestamp: time.Now().UTC(),
			}
			parseUA(info, r.UserAgent())
			if geo != nil {
				info.CountryISO = geo.CountryISO(info.IP)
			}

			if ce := zap.L().Check(zap.DebugLevel, "request info"); ce != nil {
				ce.Write(
					zap.Stringer("ip", info.IP),
					zap.String("country", info.CountryISO),
					zap.String("browser", info.Browser),
					zap.String("device", info.Device),
					zap.Bool("bot", info.Bot),
					zap.String("path", r.URL.Path),
				)
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), info)))
		})
	}
}
