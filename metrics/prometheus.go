/*
Package metrics exposes Prometheus counters and histograms for the decision
engine: how often routing fails, which nodes traffic actually passes
through, how long a route lookup or a full traversal takes, and how long a
resource's body producer spends doing I/O.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func statusLabel(code int) string {
	return strconv.Itoa(code)
}

// Options configures the Prometheus registry Init creates.
type Options struct {
	// Prefix is prepended to every metric name, including the
	// trailing underscore, e.g. "airship_".
	Prefix string

	// EnableRuntimeMetrics registers the Go runtime collector
	// (goroutines, GC pauses, memory) alongside the airship metrics.
	EnableRuntimeMetrics bool
}

// Prometheus holds the registered collectors. The zero value is not usable;
// construct one with Init.
type Prometheus struct {
	registry *prometheus.Registry

	routingFailures  prometheus.Counter
	backendErrors    *prometheus.CounterVec
	nodeVisits       *prometheus.CounterVec
	statusCodes      *prometheus.CounterVec
	routeLookup      prometheus.Histogram
	traversal        prometheus.Histogram
	filterCreate     *prometheus.HistogramVec
	bodyProducer     *prometheus.HistogramVec
}

// Init creates the registry and every collector, and returns the Prometheus
// instance decision.Engine and the server shim report measurements through.
func Init(o Options) *Prometheus {
	reg := prometheus.NewRegistry()
	if o.EnableRuntimeMetrics {
		reg.MustRegister(prometheus.NewGoCollector())
		reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	}

	prefix := o.Prefix
	if prefix == "" {
		prefix = "airship_"
	}

	pm := &Prometheus{
		registry: reg,
		routingFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "route_error_total",
			Help: "Total number of routing failures, i.e. no route matched the request.",
		}),
		backendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "backend_error_total",
			Help: "Total number of errors produced by a resource's action or body producer, by route.",
		}, []string{"route"}),
		nodeVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "decision_node_total",
			Help: "Total number of times each decision graph node was visited.",
		}, []string{"node"}),
		statusCodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "response_status_total",
			Help: "Total number of responses, by status code.",
		}, []string{"code"}),
		routeLookup: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: prefix + "route_lookup_duration_seconds",
			Help: "Duration of the routing trie lookup.",
		}),
		traversal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: prefix + "traversal_duration_seconds",
			Help: "Duration of a full decision graph traversal.",
		}),
		filterCreate: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: prefix + "filter_create_duration_seconds",
			Help: "Duration of resource filter/callback construction, by filter name.",
		}, []string{"filter"}),
		bodyProducer: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: prefix + "body_producer_duration_seconds",
			Help: "Duration of a resource's body producer call, by content type.",
		}, []string{"mime"}),
	}

	reg.MustRegister(
		pm.routingFailures,
		pm.backendErrors,
		pm.nodeVisits,
		pm.statusCodes,
		pm.routeLookup,
		pm.traversal,
		pm.filterCreate,
		pm.bodyProducer,
	)

	return pm
}

func (pm *Prometheus) IncRoutingFailures() {
	pm.routingFailures.Inc()
}

func (pm *Prometheus) IncErrorsBackend(route string) {
	pm.backendErrors.WithLabelValues(route).Inc()
}

// IncNode increments the visit counter for one decision graph node label
// (e.g. "b13", "v3b"). Turns the per-request decision trace into a queryable
// distribution of which nodes traffic actually passes through.
func (pm *Prometheus) IncNode(label string) {
	pm.nodeVisits.WithLabelValues(label).Inc()
}

func (pm *Prometheus) IncStatusCode(code int) {
	pm.statusCodes.WithLabelValues(statusLabel(code)).Inc()
}

func (pm *Prometheus) MeasureRouteLookup(start time.Time) {
	pm.routeLookup.Observe(time.Since(start).Seconds())
}

func (pm *Prometheus) MeasureTraversal(start time.Time) {
	pm.traversal.Observe(time.Since(start).Seconds())
}

func (pm *Prometheus) MeasureFilterCreate(filter string, start time.Time) {
	pm.filterCreate.WithLabelValues(filter).Observe(time.Since(start).Seconds())
}

func (pm *Prometheus) MeasureBodyProducer(mime string, start time.Time) {
	pm.bodyProducer.WithLabelValues(mime).Observe(time.Since(start).Seconds())
}

// Handler exposes the registered metrics in the Prometheus exposition
// format, suitable for mounting at /metrics.
func (pm *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{})
}
