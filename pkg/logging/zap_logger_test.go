package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZapLogger_CreatesProcessLogDirectory(t *testing.T) {
	tests := []struct {
		name   string
		config LoggerConfig
	}{
		{
			name: "development mode",
			config: LoggerConfig{
				LogDir:      t.TempDir(),
				ProcessName: InstallerProcess,
				Environment: Development,
				UseColors:   true,
			},
		},
		{
			name: "production mode",
			config: LoggerConfig{
				LogDir:      t.TempDir(),
				ProcessName: InstallerProcess,
				Environment: Production,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewZapLogger(tt.config)
			require.NoError(t, err)
			require.NotNil(t, logger)

			logger.Infof("hello %s", "world")
			logger.Debug("structured", "key", "value")

			logDir := filepath.Join(tt.config.LogDir, LogsDir, string(tt.config.ProcessName))
			info, err := os.Stat(logDir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestNewDefaultConfig_UsesDevelopmentDefaults(t *testing.T) {
	config := NewDefaultConfig(InstallerProcess)

	assert.Equal(t, BaseDataDir, config.LogDir)
	assert.Equal(t, InstallerProcess, config.ProcessName)
	assert.Equal(t, Development, config.Environment)
	assert.True(t, config.UseColors)
}

func TestLoggerWith_ReturnsIndependentLogger(t *testing.T) {
	config := NewDefaultConfig(InstallerProcess)
	config.LogDir = t.TempDir()

	logger, err := NewZapLogger(config)
	require.NoError(t, err)

	child := logger.With("component", "test")
	assert.NotNil(t, child)
	child.Info("tagged entry")
}
