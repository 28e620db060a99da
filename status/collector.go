package status

import (
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports a Registry as Prometheus metrics
// Ints ending in _total become counters, other numbers gauges, bools 0/1 gauges,
// and strings an info-style gauge carrying the value as a label
type Collector struct {
	registry    *Registry
	namespace   string
	constLabels prometheus.Labels
}

// NewCollector creates a collector over r with every metric prefixed by namespace
func NewCollector(r *Registry, namespace string, constLabels prometheus.Labels) *Collector {
	return &Collector{
		registry:    r,
		namespace:   namespace,
		constLabels: constLabels,
	}
}

// Describe sends nothing; the metric set grows at runtime, making this an unchecked collector
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect emits the current value of every registered metric
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.registry.Ints.Range(func(k string, v *atomic.Int64) {
		kind := prometheus.GaugeValue
		if strings.HasSuffix(k, "_total") {
			kind = prometheus.CounterValue
		}
		ch <- prometheus.MustNewConstMetric(c.desc(k, nil), kind, float64(v.Load()))
	})
	c.registry.Floats.Range(func(k string, v *AtomicFloat) {
		ch <- prometheus.MustNewConstMetric(c.desc(k, nil), prometheus.GaugeValue, v.Get())
	})
	c.registry.Bools.Range(func(k string, v *atomic.Bool) {
		var f float64
		if v.Load() {
			f = 1
		}
		ch <- prometheus.MustNewConstMetric(c.desc(k, nil), prometheus.GaugeValue, f)
	})
	c.registry.Strings.Range(func(k string, v *AtomicString) {
		ch <- prometheus.MustNewConstMetric(c.desc(k+"_info", []string{"value"}), prometheus.GaugeValue, 1, v.Load())
	})
}

func (c *Collector) desc(key string, labels []string) *prometheus.Desc {
	name := prometheus.BuildFQName(c.namespace, "", sanitize(key))
	return prometheus.NewDesc(name, "metronome metric "+key, labels, c.constLabels)
}

// sanitize maps a registry key onto the Prometheus metric name alphabet
func sanitize(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == ':':
			return r
		}
		return '_'
	}, key)
}
