package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector tracks the adapter's lifecycle operations and, optionally,
// common process metrics. It owns its own registry so multiple adapter
// instances do not collide.
type Collector struct {
	namespace     string
	registry      *prometheus.Registry
	commonMetrics *CommonMetrics
	handler       http.Handler
	stopCh        chan struct{}
	wg            sync.WaitGroup
	options       CollectorOptions

	installsTotal   *prometheus.CounterVec
	updatesTotal    prometheus.Counter
	uninstallsTotal prometheus.Counter
	pullFailures    prometheus.Counter
	createFailures  prometheus.Counter
}

// NewCollector creates a new metrics collector
func NewCollector(opts ...Option) *Collector {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	registry := prometheus.NewRegistry()

	collector := &Collector{
		namespace: options.Namespace,
		registry:  registry,
		stopCh:    make(chan struct{}),
		options:   options,

		installsTotal: NewCounterVec(options.Namespace, "installer", "installs_total",
			"Number of install operations, by result", []string{"result"}),
		updatesTotal: NewCounter(options.Namespace, "installer", "updates_total",
			"Number of completed update operations"),
		uninstallsTotal: NewCounter(options.Namespace, "installer", "uninstalls_total",
			"Number of completed uninstall operations"),
		pullFailures: NewCounter(options.Namespace, "installer", "pull_failures_total",
			"Number of failed image pulls"),
		createFailures: NewCounter(options.Namespace, "installer", "create_failures_total",
			"Number of failed container creations"),
	}

	registry.MustRegister(
		collector.installsTotal,
		collector.updatesTotal,
		collector.uninstallsTotal,
		collector.pullFailures,
		collector.createFailures,
	)

	if options.EnableCommonMetrics {
		collector.commonMetrics = newCommonMetrics(options.Namespace, registry)
	}

	collector.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		Registry: registry,
	})

	return collector
}

// Start begins background collection of common process metrics.
func (c *Collector) Start() {
	if c.commonMetrics == nil {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.commonMetrics.collect(c.options.SystemMetricsInterval, c.stopCh)
	}()
}

// Stop halts background collection.
func (c *Collector) Stop() {
	close(c.stopCh)
	c.wg.Wait()
}

// Handler returns the HTTP handler exposing this collector's registry.
func (c *Collector) Handler() http.Handler {
	return c.handler
}

// RecordInstall counts an install attempt with the given result
// ("success" or "failure"). Nil-safe.
func (c *Collector) RecordInstall(result string) {
	if c == nil {
		return
	}
	c.installsTotal.WithLabelValues(result).Inc()
}

// RecordUpdate counts a completed update. Nil-safe.
func (c *Collector) RecordUpdate() {
	if c == nil {
		return
	}
	c.updatesTotal.Inc()
}

// RecordUninstall counts a completed uninstall. Nil-safe.
func (c *Collector) RecordUninstall() {
	if c == nil {
		return
	}
	c.uninstallsTotal.Inc()
}

// RecordPullFailure counts a failed image pull. Nil-safe.
func (c *Collector) RecordPullFailure() {
	if c == nil {
		return
	}
	c.pullFailures.Inc()
}

// RecordCreateFailure counts a failed container creation. Nil-safe.
func (c *Collector) RecordCreateFailure() {
	if c == nil {
		return
	}
	c.createFailures.Inc()
}
