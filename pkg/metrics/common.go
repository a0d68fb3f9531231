package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/cpu"
)

// CommonMetrics contains process-level metrics shared by all collectors
type CommonMetrics struct {
	startTime        time.Time
	UptimeSeconds    prometheus.Gauge
	MemoryUsageBytes prometheus.Gauge
	CPUUsagePercent  prometheus.Gauge
	GoroutinesActive prometheus.Gauge
}

func newCommonMetrics(namespace string, registry *prometheus.Registry) *CommonMetrics {
	m := &CommonMetrics{
		startTime: time.Now(),
		UptimeSeconds: NewGauge(namespace, "process", "uptime_seconds",
			"Seconds since the process started"),
		MemoryUsageBytes: NewGauge(namespace, "process", "memory_usage_bytes",
			"Bytes of allocated heap objects"),
		CPUUsagePercent: NewGauge(namespace, "process", "cpu_usage_percent",
			"System-wide CPU utilization percentage"),
		GoroutinesActive: NewGauge(namespace, "process", "goroutines_active",
			"Number of currently active goroutines"),
	}

	registry.MustRegister(
		m.UptimeSeconds,
		m.MemoryUsageBytes,
		m.CPUUsagePercent,
		m.GoroutinesActive,
	)

	return m
}

func (m *CommonMetrics) collect(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.update()
	for {
		select {
		case <-ticker.C:
			m.update()
		case <-stopCh:
			return
		}
	}
}

func (m *CommonMetrics) update() {
	m.UptimeSeconds.Set(time.Since(m.startTime).Seconds())
	m.GoroutinesActive.Set(float64(runtime.NumGoroutine()))

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.MemoryUsageBytes.Set(float64(memStats.HeapAlloc))

	if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
		m.CPUUsagePercent.Set(percentages[0])
	}
}
