package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/escortde/internal/logger"
	"github.com/yanizio/escortde/internal/requestinfo"
)

// AccessLog writes one structured line per request to the "access" logger,
// which logger.New routes to its own file.  It must run inside
// requestinfo.Enrich to pick up the bot flag and visitor country.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("dur", time.Since(start)),
			zap.String("req_id", chimw.GetReqID(r.Context())),
		}
		if info := requestinfo.FromContext(r.Context()); info != nil {
			fields = append(fields,
				zap.String("ip", info.IP.String()),
				zap.Bool("bot", info.Bot),
				zap.String("country", info.CountryISO),
			)
		}

		log := logger.Access()
		switch {
		case status >= 500:
			log.Error("request", fields...)
		default:
			log.Info("request", fields...)
		}
	})
}
