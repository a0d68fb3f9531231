package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector_RegistersInstallerMetrics(t *testing.T) {
	collector := NewCollector(WithCommonMetrics(false))

	collector.RecordInstall("success")
	collector.RecordInstall("failure")
	collector.RecordUpdate()
	collector.RecordUninstall()
	collector.RecordPullFailure()
	collector.RecordCreateFailure()

	recorder := httptest.NewRecorder()
	collector.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

	body := recorder.Body.String()
	assert.Contains(t, body, `extension_installer_installer_installs_total{result="success"} 1`)
	assert.Contains(t, body, `extension_installer_installer_installs_total{result="failure"} 1`)
	assert.Contains(t, body, "extension_installer_installer_updates_total 1")
	assert.Contains(t, body, "extension_installer_installer_uninstalls_total 1")
	assert.Contains(t, body, "extension_installer_installer_pull_failures_total 1")
	assert.Contains(t, body, "extension_installer_installer_create_failures_total 1")
}

func TestNewCollector_CustomNamespace(t *testing.T) {
	collector := NewCollector(WithNamespace("custom"), WithCommonMetrics(false))
	collector.RecordUpdate()

	recorder := httptest.NewRecorder()
	collector.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

	assert.Contains(t, recorder.Body.String(), "custom_installer_updates_total 1")
}

func TestCollector_CommonMetricsCollection(t *testing.T) {
	collector := NewCollector(WithSystemMetricsInterval(10 * time.Millisecond))
	collector.Start()
	defer collector.Stop()

	require.Eventually(t, func() bool {
		recorder := httptest.NewRecorder()
		collector.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
		return strings.Contains(recorder.Body.String(), "extension_installer_process_goroutines_active")
	}, time.Second, 20*time.Millisecond)
}

func TestCollector_NilSafeRecording(t *testing.T) {
	var collector *Collector

	// Must not panic when metrics are disabled.
	collector.RecordInstall("success")
	collector.RecordUpdate()
	collector.RecordUninstall()
	collector.RecordPullFailure()
	collector.RecordCreateFailure()
}
