package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/docker/go-units"
)

// InstallerConfig holds the adapter's own knobs. Everything about the
// containers themselves comes from the image descriptors; this only
// configures where bind backing lives and how the daemon is driven.
type InstallerConfig struct {
	// BindRoot is the host directory under which declared binds are
	// provisioned. Empty disables bind provisioning.
	BindRoot string

	// StopTimeout is how long the daemon waits for a container to exit
	// before killing it on stop.
	StopTimeout time.Duration

	// MemoryLimit caps containers that do not bring their own limit,
	// e.g. "512m". Empty means no cap.
	MemoryLimit string

	// NetworkMode applies to containers that do not set one.
	NetworkMode string

	// PullLogLines is how many trailing lines of pull progress to log.
	PullLogLines int
}

// MemoryLimitBytes parses MemoryLimit; zero means unlimited.
func (c InstallerConfig) MemoryLimitBytes() int64 {
	if c.MemoryLimit == "" {
		return 0
	}
	bytes, err := units.RAMInBytes(c.MemoryLimit)
	if err != nil {
		return 0
	}
	return bytes
}

func (c InstallerConfig) Validate() error {
	if c.BindRoot != "" && !filepath.IsAbs(c.BindRoot) {
		return fmt.Errorf("bind_root must be an absolute path, got %q", c.BindRoot)
	}
	if c.StopTimeout <= 0 {
		return fmt.Errorf("stop_timeout must be positive, got %v", c.StopTimeout)
	}
	if c.PullLogLines < 0 {
		return fmt.Errorf("pull_log_lines must not be negative, got %d", c.PullLogLines)
	}
	if c.MemoryLimit != "" {
		if _, err := units.RAMInBytes(c.MemoryLimit); err != nil {
			return fmt.Errorf("invalid memory_limit %q: %w", c.MemoryLimit, err)
		}
	}
	return nil
}
