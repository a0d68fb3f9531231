package types

import (
	"github.com/docker/docker/api/types/container"
)

// State is the adapter's normalized lifecycle vocabulary, reported to
// the extension host.
type State string

const (
	StateNotInstalled State = "not_installed"
	StateInstalled    State = "installed"
	StateStopped      State = "stopped"
	StateRunning      State = "running"
	StateTerminated   State = "terminated"
)

// Raw daemon lifecycle strings the adapter reacts to. The daemon knows
// more states (paused, restarting, dead, ...); those report as installed.
const (
	RawStateCreated = "created"
	RawStateRunning = "running"
	RawStateExited  = "exited"
)

// ImageDescriptor is the package manifest the extension host hands to
// the adapter: a repo, one tag per architecture, a container creation
// template and the container paths that need host-side backing.
type ImageDescriptor struct {
	Repo       string
	Tags       map[string]string // architecture -> tag
	Config     *container.Config
	HostConfig *container.HostConfig
	Binds      []string
	Options    *InstallOptions
}

// RepoTag resolves the image reference for the given architecture.
func (d ImageDescriptor) RepoTag(arch string) (string, bool) {
	tag, ok := d.Tags[arch]
	if !ok {
		return "", false
	}
	return d.Repo + ":" + tag, true
}

// InstallOptions carries install-time overrides: extra environment
// variables and host devices to map into the container.
type InstallOptions struct {
	Env     map[string]string
	Devices []string
}

// ResolvedVolume identifies a named volume already backing a sibling
// container, reused across reinstalls to preserve data.
type ResolvedVolume struct {
	Source string
	Name   string
}

// StateRecord is the cached lifecycle state of one install: the raw
// daemon string plus the sticky terminated override. Once Terminated is
// set, daemon-reported states no longer change what the host sees.
type StateRecord struct {
	Raw        string
	Terminated bool
}

// Status is the normalized status view returned to the host.
type Status struct {
	State   State
	Version string
}

// DaemonInfo describes the engine the adapter is connected to, fetched
// once at initialization.
type DaemonInfo struct {
	Version string
	OS      string
	Arch    string
}
