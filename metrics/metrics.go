package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalidDates = "invalid_dates"
	OutcomeDateOrder    = "date_order"
	OutcomeRequestError = "request_error"
	OutcomeStale        = "stale"
)

var (
	searches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "debt_history",
		Name:      "searches_total",
		Help:      "Debt history search submissions by outcome.",
	}, []string{"outcome"})

	apiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "debt_history",
		Name:      "api_request_duration_seconds",
		Help:      "Latency of calls to the salon API.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "status"})
)

func ObserveSearch(outcome string) {
	searches.WithLabelValues(outcome).Inc()
}

// ObserveAPIRequest records one API call. status 0 means the request never
// got a response.
func ObserveAPIRequest(endpoint string, status int, started time.Time) {
	apiDuration.WithLabelValues(endpoint, statusClass(status)).Observe(time.Since(started).Seconds())
}

func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}

func Handler() http.Handler {
	return promhttp.Handler()
}
