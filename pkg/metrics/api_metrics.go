// Package metrics provides Prometheus metrics for the Shortcut CLI gateway.
//
// The CLI is a short-lived process, so metrics live in a private registry and
// are exported by writing a node_exporter textfile on exit (see WriteTextfile).
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// OtherLabel replaces caller-typed label values that are not in a capability table.
const OtherLabel = "other"

// Registry holds every metric defined in this package.
var Registry = prometheus.NewRegistry()

var (
	// apiRequestsTotal records Shortcut API round trips.
	// Labels:
	//   - method: HTTP method (e.g., "GET", "POST")
	//   - status: status class ("2xx", "4xx", "5xx") or "error" for connection failures
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortcut_api_requests_total",
			Help: "Total number of Shortcut API requests",
		},
		[]string{"method", "status"},
	)

	// apiRequestDuration records the latency of Shortcut API round trips.
	// Buckets: 50ms .. 10s
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shortcut_api_request_duration_seconds",
			Help:    "Duration of Shortcut API requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	// routerDispatchTotal records router decisions.
	// Labels:
	//   - tier: "read" or "write"
	//   - entity, operation: requested pair, OtherLabel when the tier does not know it
	//   - outcome: "completed", "failed", "usage", "unknown_entity", "disallowed_operation", "handler_not_found"
	routerDispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortcut_router_dispatch_total",
			Help: "Total number of router dispatch decisions",
		},
		[]string{"tier", "entity", "operation", "outcome"},
	)
)

func init() {
	Registry.MustRegister(apiRequestsTotal)
	Registry.MustRegister(apiRequestDuration)
	Registry.MustRegister(routerDispatchTotal)
}

// StatusClass maps an HTTP status code to its metric label. Zero means the
// request never produced a response.
func StatusClass(code int) string {
	if code <= 0 {
		return "error"
	}
	return strconv.Itoa(code/100) + "xx"
}

// RecordAPIRequest records one API round trip.
// Parameters:
//   - method: HTTP method
//   - status: HTTP status code, 0 when the connection failed
//   - durationSeconds: round trip duration in seconds
func RecordAPIRequest(method string, status int, durationSeconds float64) {
	apiRequestsTotal.WithLabelValues(method, StatusClass(status)).Inc()
	apiRequestDuration.WithLabelValues(method).Observe(durationSeconds)
}

// RecordDispatch records a router decision.
func RecordDispatch(tier, entity, operation, outcome string) {
	routerDispatchTotal.WithLabelValues(tier, entity, operation, outcome).Inc()
}

// WriteTextfile writes the current registry to path in the Prometheus text
// exposition format. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
