package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by the service and the collectors.
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid_input"
	OutcomeRateLimited = "rate_limited"
	OutcomeUnavailable = "provider_unavailable"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"

	DecisionAllowed = "allowed"
	DecisionDenied  = "denied"
)

type Metrics struct {
	Requests          *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec
	RateLimitDecision *prometheus.CounterVec
	APIErrors         prometheus.Counter
	RequestSeconds    *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "compass_requests_total",
			Help: "Total number of gateway operations by outcome.",
		}, []string{"operation", "outcome"}),
		CacheLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "compass_cache_lookups_total",
			Help: "Total number of result cache lookups by result kind.",
		}, []string{"kind", "result"}),
		RateLimitDecision: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "compass_ratelimit_decisions_total",
			Help: "Total number of rate limit admission decisions.",
		}, []string{"decision"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "compass_provider_api_errors_total",
			Help: "Total number of errors received from the geocoding provider API.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "compass_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
	}
}

// RegisterIdentityGauge exposes the number of identities holding a rate limit bucket.
func RegisterIdentityGauge(reg prometheus.Registerer, count func() int) prometheus.GaugeFunc {
	return promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "compass_ratelimit_identities",
		Help: "Current number of identities holding a rate limit bucket.",
	}, func() float64 { return float64(count()) })
}
