package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Every failure the admission pipeline swallows on purpose must leave a
// trace here, so best-effort never means invisible.
var (
	BookkeepingFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seo_api_bookkeeping_failures_total",
		Help: "Non-fatal failures updating api key last-used/total-requests bookkeeping.",
	})

	RateLimiterFailOpen = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seo_api_rate_limiter_fail_open_total",
		Help: "Requests admitted without rate limiting because the counter backend was unreachable.",
	})

	CacheErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seo_api_credential_cache_errors_total",
		Help: "Credential cache operations that failed and degraded to a store lookup.",
	})

	UsageRecordsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seo_api_usage_records_dropped_total",
		Help: "Usage log records dropped because the recorder buffer was full.",
	})

	UsageRecordFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seo_api_usage_record_failures_total",
		Help: "Usage log records that failed to persist.",
	})

	AuthRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seo_api_auth_rejections_total",
		Help: "API key verifications rejected, by reason code.",
	}, []string{"code"})
)
