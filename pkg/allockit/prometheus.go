package allockit

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusConfig is the configuration of the metrics collected by Instrumented.
//
// An instance should be created with the Prometheus function.
type PrometheusConfig struct {
	// Namespace of the metrics.
	Namespace string
	// Subsystem of the metrics.
	Subsystem string
	// Options for the allocations counter.
	Allocations prometheus.CounterOpts
	// Options for the releases counter.
	Releases prometheus.CounterOpts
	// Options for the grows counter.
	Grows prometheus.CounterOpts
	// Options for the shrinks counter.
	Shrinks prometheus.CounterOpts
	// Options for the live elements gauge.
	LiveElements prometheus.GaugeOpts
	// Options for the failed allocations counter.
	Failures prometheus.CounterOpts

	registerer prometheus.Registerer
}

// Prometheus returns a PrometheusConfig with the provided registerer.
// If registerer is nil, the metrics are collected but not registered.
func Prometheus(registerer prometheus.Registerer, configFuncs ...func(c *PrometheusConfig)) *PrometheusConfig {
	const (
		namespace = "rawvec"
		subsystem = "allocator"
	)
	c := PrometheusConfig{
		registerer: registerer,
		Namespace:  namespace,
		Subsystem:  subsystem,
		Allocations: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "allocations_total",
			Help:      "Number of buffers allocated",
		},
		Releases: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "releases_total",
			Help:      "Number of buffers released without dropping their elements",
		},
		Grows: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "grows_total",
			Help:      "Number of buffer grow operations",
		},
		Shrinks: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "shrinks_total",
			Help:      "Number of buffer shrink operations",
		},
		LiveElements: prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "live_elements",
			Help:      "Capacity, in elements, of the buffers currently allocated",
		},
		Failures: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "failures_total",
			Help:      "Number of failed allocator calls",
		},
	}
	for _, cf := range configFuncs {
		if cf != nil {
			cf(&c)
		}
	}
	return &c
}

func (c *PrometheusConfig) metrics() *metrics {
	m := metrics{
		allocations:  prometheus.NewCounter(c.Allocations),
		releases:     prometheus.NewCounter(c.Releases),
		grows:        prometheus.NewCounter(c.Grows),
		shrinks:      prometheus.NewCounter(c.Shrinks),
		liveElements: prometheus.NewGauge(c.LiveElements),
		failures:     prometheus.NewCounterVec(c.Failures, []string{"op"}),
	}
	if c.registerer != nil {
		c.registerer.MustRegister(
			m.allocations,
			m.releases,
			m.grows,
			m.shrinks,
			m.liveElements,
			m.failures,
		)
	}
	return &m
}

type metrics struct {
	allocations  prometheus.Counter
	releases     prometheus.Counter
	grows        prometheus.Counter
	shrinks      prometheus.Counter
	liveElements prometheus.Gauge
	failures     *prometheus.CounterVec
}

// Instrumented wraps an Allocator and reports its activity as Prometheus metrics.
type Instrumented[T any] struct {
	alloc   Allocator[T]
	metrics *metrics
}

// Instrument wraps the allocator with metrics described by the config.
// A nil config uses the defaults of Prometheus(nil).
func Instrument[T any](alloc Allocator[T], config *PrometheusConfig) *Instrumented[T] {
	if alloc == nil {
		alloc = Global[T]{}
	}
	if config == nil {
		config = Prometheus(nil)
	}
	return &Instrumented[T]{
		alloc:   alloc,
		metrics: config.metrics(),
	}
}

func (i *Instrumented[T]) Allocate(capacity int) ([]T, error) {
	buf, err := i.alloc.Allocate(capacity)
	if err != nil {
		i.metrics.failures.WithLabelValues("allocate").Inc()
		return nil, err
	}
	i.metrics.allocations.Inc()
	i.metrics.liveElements.Add(float64(len(buf)))
	return buf, nil
}

func (i *Instrumented[T]) Grow(buf []T, capacity int) ([]T, error) {
	out, err := i.alloc.Grow(buf, capacity)
	if err != nil {
		i.metrics.failures.WithLabelValues("grow").Inc()
		return nil, err
	}
	i.metrics.grows.Inc()
	i.metrics.liveElements.Add(float64(len(out) - len(buf)))
	return out, nil
}

func (i *Instrumented[T]) Shrink(buf []T, capacity int) ([]T, error) {
	out, err := i.alloc.Shrink(buf, capacity)
	if err != nil {
		i.metrics.failures.WithLabelValues("shrink").Inc()
		return nil, err
	}
	i.metrics.shrinks.Inc()
	i.metrics.liveElements.Sub(float64(len(buf) - len(out)))
	return out, nil
}

func (i *Instrumented[T]) DeallocateNoDrop(buf []T) error {
	if err := i.alloc.DeallocateNoDrop(buf); err != nil {
		i.metrics.failures.WithLabelValues("release").Inc()
		return err
	}
	i.metrics.releases.Inc()
	i.metrics.liveElements.Sub(float64(len(buf)))
	return nil
}
