// Package observe provides the logging and metrics surface for the
// module.
//
// Logging is zap; NewLogger builds a production JSON logger from a
// level string. Metrics go through a Collector backed by an
// OpenTelemetry meter, with counters, gauges, and histograms created
// lazily by name. NewMeterProvider wires an exporter (otlp, stdout, or
// none) for processes that own the metrics pipeline.
package observe
