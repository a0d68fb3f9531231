package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/TheAppgineer/extension-installer-docker/pkg/env"
)

// fileConfig is the YAML shape of the config file. Fields are pointers
// so an absent key leaves the default untouched; durations are strings
// ("30s") and parsed explicitly.
type fileConfig struct {
	BindRoot     *string `yaml:"bind_root"`
	StopTimeout  *string `yaml:"stop_timeout"`
	MemoryLimit  *string `yaml:"memory_limit"`
	NetworkMode  *string `yaml:"network_mode"`
	PullLogLines *int    `yaml:"pull_log_lines"`
}

func (fc fileConfig) apply(cfg *InstallerConfig) error {
	if fc.BindRoot != nil {
		cfg.BindRoot = *fc.BindRoot
	}
	if fc.StopTimeout != nil {
		timeout, err := time.ParseDuration(*fc.StopTimeout)
		if err != nil {
			return fmt.Errorf("invalid stop_timeout %q: %w", *fc.StopTimeout, err)
		}
		cfg.StopTimeout = timeout
	}
	if fc.MemoryLimit != nil {
		cfg.MemoryLimit = *fc.MemoryLimit
	}
	if fc.NetworkMode != nil {
		cfg.NetworkMode = *fc.NetworkMode
	}
	if fc.PullLogLines != nil {
		cfg.PullLogLines = *fc.PullLogLines
	}
	return nil
}

// ConfigProvider holds the final, validated configuration.
//
// Precedence, lowest to highest: defaults, the optional YAML file,
// environment variables (a .env file is honored if present).
type ConfigProvider struct {
	cfg InstallerConfig
}

// NewConfigProvider loads the configuration. A missing YAML file is
// ignored and defaults are used without error; any other read issue,
// YAML parsing error or validation failure is returned.
func NewConfigProvider(yamlFilePath string) (*ConfigProvider, error) {
	_ = godotenv.Load()

	cfg := DefaultInstallerConfig()

	if yamlFilePath != "" {
		yamlFile, err := os.ReadFile(yamlFilePath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file at %s: %w", yamlFilePath, err)
			}
		} else {
			var fc fileConfig
			if err := yaml.Unmarshal(yamlFile, &fc); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
			}
			if err := fc.apply(&cfg); err != nil {
				return nil, err
			}
		}
	}

	cfg.BindRoot = env.GetEnvString("INSTALLER_BIND_ROOT", cfg.BindRoot)
	cfg.StopTimeout = env.GetEnvDuration("INSTALLER_STOP_TIMEOUT", cfg.StopTimeout)
	cfg.MemoryLimit = env.GetEnvString("INSTALLER_MEMORY_LIMIT", cfg.MemoryLimit)
	cfg.NetworkMode = env.GetEnvString("INSTALLER_NETWORK_MODE", cfg.NetworkMode)
	cfg.PullLogLines = env.GetEnvInt("INSTALLER_PULL_LOG_LINES", cfg.PullLogLines)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &ConfigProvider{cfg: cfg}, nil
}

// GetConfig returns the complete configuration
func (cp *ConfigProvider) GetConfig() InstallerConfig {
	return cp.cfg
}
