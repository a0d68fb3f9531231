package config

import "time"

func DefaultInstallerConfig() InstallerConfig {
	return InstallerConfig{
		BindRoot:     "",
		StopTimeout:  10 * time.Second,
		MemoryLimit:  "",
		NetworkMode:  "bridge",
		PullLogLines: 5,
	}
}
