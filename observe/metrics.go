package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Predefined metric names for the pipeline stages.
const (
	MetricCrawlTotal      = "moguard.crawl.total"
	MetricParseTotal      = "moguard.parse.total"
	MetricStorageTotal    = "moguard.storage.total"
	MetricNotifyTotal     = "moguard.notify.total"
	MetricErrorsTotal     = "moguard.errors.total"
	MetricDurationSeconds = "moguard.duration.seconds"
)

// Collector records counters, gauges, and histograms by name through an
// OpenTelemetry meter. Instruments are created on first use and reused
// after that.
//
// All methods are safe for concurrent use and never panic; an
// instrument that fails to build is silently dropped.
type Collector struct {
	meter metric.Meter

	mu         sync.Mutex
	counters   map[string]metric.Float64Counter
	gauges     map[string]metric.Float64Gauge
	histograms map[string]metric.Float64Histogram
}

// NewCollector creates a collector on the given meter. A nil meter uses
// the global meter provider.
func NewCollector(meter metric.Meter) *Collector {
	if meter == nil {
		meter = otel.Meter("github.com/lineance/moguard")
	}
	return &Collector{
		meter:      meter,
		counters:   make(map[string]metric.Float64Counter),
		gauges:     make(map[string]metric.Float64Gauge),
		histograms: make(map[string]metric.Float64Histogram),
	}
}

// Incr adds value to the named counter.
func (c *Collector) Incr(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue) {
	c.mu.Lock()
	counter, ok := c.counters[name]
	if !ok {
		var err error
		counter, err = c.meter.Float64Counter(name)
		if err != nil {
			c.mu.Unlock()
			return
		}
		c.counters[name] = counter
	}
	c.mu.Unlock()

	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Gauge sets the named gauge to value.
func (c *Collector) Gauge(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue) {
	c.mu.Lock()
	gauge, ok := c.gauges[name]
	if !ok {
		var err error
		gauge, err = c.meter.Float64Gauge(name)
		if err != nil {
			c.mu.Unlock()
			return
		}
		c.gauges[name] = gauge
	}
	c.mu.Unlock()

	gauge.Record(ctx, value, metric.WithAttributes(attrs...))
}

// Observe records value into the named histogram.
func (c *Collector) Observe(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue) {
	c.mu.Lock()
	hist, ok := c.histograms[name]
	if !ok {
		var err error
		hist, err = c.meter.Float64Histogram(name)
		if err != nil {
			c.mu.Unlock()
			return
		}
		c.histograms[name] = hist
	}
	c.mu.Unlock()

	hist.Record(ctx, value, metric.WithAttributes(attrs...))
}

// Timed runs op and records its duration into MetricDurationSeconds
// plus a success or error count, all labelled with the operation name.
func (c *Collector) Timed(ctx context.Context, name string, op func(context.Context) error) error {
	start := time.Now()
	err := op(ctx)
	elapsed := time.Since(start).Seconds()

	attrs := []attribute.KeyValue{attribute.String("operation", name)}
	c.Observe(ctx, MetricDurationSeconds, elapsed, attrs...)
	if err != nil {
		c.Incr(ctx, MetricErrorsTotal, 1, attrs...)
	} else {
		c.Incr(ctx, name+".success", 1)
	}
	return err
}
