// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ListingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_requests_total",
			Help: "Listing resolutions by page kind (home, gender, country, city).",
		}, []string{"kind"})

	ListingResultsEmptyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "listing_results_empty_total",
			Help: "Listing resolutions that returned no ads.",
		})

	RedirectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redirects_total",
			Help: "Permanent redirects issued, by rule.",
		}, []string{"rule"})

	NotFoundTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "not_found_total",
			Help: "Non-indexable not-found responses, by reason.",
		}, []string{"reason"})

	ModerationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_actions_total",
			Help: "Admin moderation actions by entity, action, and result.",
		}, []string{"entity", "action", "result"})

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_total",
			Help: "Public form submissions by form and result.",
		}, []string{"form", "result"})

	StoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Store failures swallowed at the data-access boundary, by operation.",
		}, []string{"op"})

	PageCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "page_cache_hits_total",
			Help: "Rendered pages served from the revalidation cache.",
		})

	PageCacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "page_cache_misses_total",
			Help: "Rendered pages computed because the cache had no fresh copy.",
		})

	PageCacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "page_cache_entries",
			Help: "Number of rendered pages currently cached.",
		})

	RateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_total",
			Help: "Requests rejected by the submission rate limiter.",
		})

	AdminLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_logins_total",
			Help: "Admin login attempts by result.",
		}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		ListingRequestsTotal,
		ListingResultsEmptyTotal,
		RedirectsTotal,
		NotFoundTotal,
		ModerationTotal,
		SubmissionsTotal,
		StoreErrorsTotal,
		PageCacheHitsTotal,
		PageCacheMissesTotal,
		PageCacheEntries,
		RateLimitedTotal,
		AdminLoginsTotal,
	)
}
