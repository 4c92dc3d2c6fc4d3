// Package metrics exposes Prometheus counters and a histogram for a running
// simulation: counters for days completed, SSA steps taken, events drained
// per phase, and rate-cache refreshes, and a histogram of per-day
// wall-clock duration. Registration style (package-level collectors
// registered eagerly in init, with a tiny opt-in HTTP endpoint) follows
// etalazz-vsa's internal/ratelimiter/telemetry/churn package, the only
// Prometheus user in the example pack.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	daysCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "metasim_days_completed_total",
		Help: "Total simulated days completed across the run.",
	})
	ssaStepsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "metasim_ssa_steps_total",
		Help: "Total direct-method SSA transitions fired across all nodes.",
	})
	eventsDrained = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "metasim_events_drained_total",
		Help: "Total scheduled events drained, by phase (e1 or e2).",
	}, []string{"phase"})
	rateRefreshTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "metasim_rate_refresh_total",
		Help: "Total from-scratch rate recomputations performed in the post-step phase.",
	})
	dayDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "metasim_day_duration_seconds",
		Help:    "Wall-clock time spent per simulated day across all phases.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(daysCompleted, ssaStepsTotal, eventsDrained, rateRefreshTotal, dayDuration)
}

// ObserveDay records one completed day's wall-clock duration.
func ObserveDay(d time.Duration) {
	daysCompleted.Inc()
	dayDuration.Observe(d.Seconds())
}

// AddSSASteps increments the SSA transition counter by n.
func AddSSASteps(n int) {
	if n > 0 {
		ssaStepsTotal.Add(float64(n))
	}
}

// AddEventsDrained increments the per-phase drained-event counter.
func AddEventsDrained(phase string, n int) {
	if n > 0 {
		eventsDrained.WithLabelValues(phase).Add(float64(n))
	}
}

// AddRateRefresh increments the from-scratch rate-recomputation counter.
func AddRateRefresh(n int) {
	if n > 0 {
		rateRefreshTotal.Add(float64(n))
	}
}

// Serve starts a background HTTP server exposing /metrics on addr. It is a
// best-effort call: the caller decides whether to wait on the returned
// error channel or ignore it.
func Serve(addr string) <-chan error {
	errCh := make(chan error, 1)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		errCh <- server.ListenAndServe()
	}()
	return errCh
}
