// Package metrics provides Prometheus instrumentation for great-appender components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "great_appender"

// Registry holds all metric instances for great-appender components.
// Every vector is labelled by the component name.
type Registry struct {
	// Writer Loop Metrics
	AppendWrites       *prometheus.CounterVec
	AppendBytesWritten *prometheus.CounterVec
	AppendErrors       *prometheus.CounterVec

	// Throughput Metrics
	ThroughputInstant *prometheus.GaugeVec
	ThroughputAverage *prometheus.GaugeVec
	ThroughputSamples *prometheus.CounterVec

	// Pipeline Metrics
	QueueSent  *prometheus.CounterVec
	QueueDepth *prometheus.GaugeVec
}

// DefaultRegistry is the registry the CLI exposes on /metrics.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		AppendWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "appender",
				Name:      "writes_total",
				Help:      "Total number of buffer writes issued",
			},
			[]string{"appender_name"},
		),

		AppendBytesWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "appender",
				Name:      "bytes_written_total",
				Help:      "Total bytes appended to the destination",
			},
			[]string{"appender_name"},
		),

		AppendErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "appender",
				Name:      "errors_total",
				Help:      "Total number of failed writes",
			},
			[]string{"appender_name"},
		),

		ThroughputInstant: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "throughput",
				Name:      "instant_bytes_per_second",
				Help:      "Bytes written since the previous sample divided by whole seconds elapsed",
			},
			[]string{"reporter_name"},
		),

		ThroughputAverage: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "throughput",
				Name:      "average_bytes_per_second",
				Help:      "Bytes written divided by whole seconds since start",
			},
			[]string{"reporter_name"},
		),

		ThroughputSamples: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "throughput",
				Name:      "samples_total",
				Help:      "Total number of byte counter samples consumed",
			},
			[]string{"reporter_name"},
		),

		QueueSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "queue",
				Name:      "sent_total",
				Help:      "Total number of values published to the pipeline",
			},
			[]string{"queue_name"},
		),

		QueueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "queue",
				Name:      "depth",
				Help:      "Number of values waiting in the pipeline",
			},
			[]string{"queue_name"},
		),
	}
}
