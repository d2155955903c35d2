package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	Registry = prometheus.NewRegistry()
	once     sync.Once
	initErr  error
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pcui_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pcui_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	HTTPInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pcui_http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		},
	)

	// APICalls counts requests sent to the cluster API, labelled by the
	// upstream status code or "error" when no response came back.
	APICalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pcui_api_calls_total",
			Help: "Total number of calls to the cluster API",
		},
		[]string{"method", "status"},
	)

	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pcui_login_attempts_total",
			Help: "Login attempts by method and result",
		},
		[]string{"method", "result"},
	)
)

// Init registers runtime and console collectors. Later calls are no-ops.
func Init() error {
	once.Do(func() {
		for _, c := range []prometheus.Collector{
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			HTTPRequestsTotal,
			HTTPRequestDuration,
			HTTPInFlight,
			APICalls,
			LoginAttempts,
		} {
			if err := Registry.Register(c); err != nil {
				initErr = err
				return
			}
		}
	})
	return initErr
}
