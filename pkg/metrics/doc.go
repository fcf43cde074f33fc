// Package metrics provides Prometheus instrumentation for great-appender.
//
// The writer loop, the throughput reporter and the counter pipeline each
// accept an optional *Registry. A nil registry disables instrumentation.
//
// Components report:
//   - appender: writes issued, bytes appended, failed writes
//   - throughput: instant and average bytes per second, samples consumed
//   - queue: values published, current depth
//
// Use a separate Prometheus registry per test to avoid duplicate
// registration:
//
//	registry := metrics.NewRegistry(prometheus.NewRegistry())
//
// The CLI registers DefaultRegistry with prometheus.DefaultRegisterer and
// serves it with promhttp when GREAT_APPENDER_METRICS_ADDR is set.
package metrics
