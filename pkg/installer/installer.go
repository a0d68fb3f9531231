package installer

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"

	dockerclient "github.com/TheAppgineer/extension-installer-docker/pkg/client/docker"
	fs "github.com/TheAppgineer/extension-installer-docker/pkg/filesystem"
	"github.com/TheAppgineer/extension-installer-docker/pkg/installer/config"
	"github.com/TheAppgineer/extension-installer-docker/pkg/installer/types"
	"github.com/TheAppgineer/extension-installer-docker/pkg/logging"
	"github.com/TheAppgineer/extension-installer-docker/pkg/metrics"
)

// Installer adapts the extension host's lifecycle operations (install,
// update, uninstall, start, stop, status) onto a local container
// daemon. One instance manages the containers it is asked about, one
// operation at a time; callers serialize operations per install name.
type Installer struct {
	gateway *Gateway
	store   *Store
	fs      fs.FileSystemAPI
	config  config.InstallerConfig
	logger  logging.Logger
	metrics *metrics.Collector
	daemon  types.DaemonInfo
}

// New assembles an installer. The metrics collector may be nil.
func New(cli dockerclient.DockerClientAPI, fsys fs.FileSystemAPI, cfg config.InstallerConfig, logger logging.Logger, collector *metrics.Collector) *Installer {
	return &Installer{
		gateway: NewGateway(cli, logger, cfg.PullLogLines),
		store:   NewStore(),
		fs:      fsys,
		config:  cfg,
		logger:  logger,
		metrics: collector,
	}
}

// Initialize probes the daemon and rebuilds the install cache from a
// full daemon query, returning the discovered installs (name -> tag).
// Fails with ErrDaemonUnavailable or ErrUnsupportedHost.
func (i *Installer) Initialize(ctx context.Context) (map[string]string, error) {
	info, err := i.gateway.Version(ctx)
	if err != nil {
		return nil, err
	}
	i.daemon = info

	i.logger.Infof("Connected to daemon %s (%s/%s)", info.Version, info.OS, info.Arch)

	if err := i.refresh(ctx, ""); err != nil {
		return nil, err
	}
	return i.store.Snapshot(), nil
}

// Name returns the install name an image descriptor is tracked under.
func (i *Installer) Name(image types.ImageDescriptor) string {
	return image.Repo
}

// InstallOptions returns the install-time options an image declares.
func (i *Installer) InstallOptions(image types.ImageDescriptor) *types.InstallOptions {
	return image.Options
}

// Install provisions host backing for the descriptor's binds, merges
// the install options into its container configuration and pulls and
// creates the container. Returns the installed tag.
func (i *Installer) Install(ctx context.Context, image types.ImageDescriptor, options *types.InstallOptions) (string, error) {
	repoTag, ok := image.RepoTag(i.daemon.Arch)
	if !ok {
		i.metrics.RecordInstall("failure")
		return "", fmt.Errorf("%w: %s has no tag for %s", ErrNoArchitectureImage, image.Repo, i.daemon.Arch)
	}

	containerConfig := image.Config
	if containerConfig == nil {
		containerConfig = &container.Config{}
	}
	hostConfig := image.HostConfig
	if hostConfig == nil {
		hostConfig = &container.HostConfig{}
	}

	mergeOptions(containerConfig, hostConfig, options)
	i.applyConfigDefaults(hostConfig)

	if len(image.Binds) > 0 && i.config.BindRoot != "" {
		if err := i.provisionBinds(ctx, image, hostConfig); err != nil {
			i.metrics.RecordInstall("failure")
			return "", err
		}
	}

	tag, err := i.installImage(ctx, repoTag, containerConfig, hostConfig)
	if err != nil {
		i.metrics.RecordInstall("failure")
		return "", err
	}

	i.metrics.RecordInstall("success")
	return tag, nil
}

// provisionBinds ensures every declared bind has host backing and adds
// the resulting bind-mount entries to the host configuration. When a
// sibling container already owns a volume under the bind root, that
// volume's data directory backs the binds instead of the bind root,
// and the volume itself is mounted read-only at the bind root.
func (i *Installer) provisionBinds(ctx context.Context, image types.ImageDescriptor, hostConfig *container.HostConfig) error {
	volume := i.resolveSiblingVolume(ctx, image.Repo)

	root := i.config.BindRoot
	if volume != nil {
		root = volume.Source
		i.logger.Infof("Reusing volume %s for binds of %s", volume.Name, image.Repo)
	}

	provisioner := &bindProvisioner{fs: i.fs, logger: i.logger}
	entries, err := provisioner.provision(root, image.Binds)
	if err != nil {
		return err
	}

	hostConfig.Binds = append(hostConfig.Binds, entries...)
	if volume != nil && len(entries) > 0 {
		hostConfig.Binds = append(hostConfig.Binds, volume.Name+":"+i.config.BindRoot+":ro")
	}
	return nil
}

// resolveSiblingVolume finds a named volume bound into an existing
// container of the same name, so a reinstall keeps its data. No
// sibling, or no matching mount, resolves to nil.
func (i *Installer) resolveSiblingVolume(ctx context.Context, repo string) *types.ResolvedVolume {
	inspect, err := i.gateway.InspectContainer(ctx, containerName(repo))
	if err != nil {
		return nil
	}

	for _, mountPoint := range inspect.Mounts {
		if mountPoint.Name == "" {
			continue
		}
		if pathContains(i.config.BindRoot, mountPoint.Destination) {
			return &types.ResolvedVolume{
				Source: mountPoint.Source,
				Name:   mountPoint.Name,
			}
		}
	}
	return nil
}

// installImage pulls an image and creates its container, then brings
// the cache up to date for that reference. Used by Install and Update.
func (i *Installer) installImage(ctx context.Context, repoTag string, containerConfig *container.Config, hostConfig *container.HostConfig) (string, error) {
	if err := i.gateway.PullImage(ctx, repoTag); err != nil {
		i.metrics.RecordPullFailure()
		return "", fmt.Errorf("%w: %s: %v", ErrPullFailed, repoTag, err)
	}

	repo, tag := splitRepoTag(repoTag)
	containerConfig.Image = repoTag

	if _, err := i.gateway.CreateContainer(ctx, containerConfig, hostConfig, containerName(repo)); err != nil {
		i.metrics.RecordCreateFailure()
		return "", fmt.Errorf("%w: %s: %v", ErrCreateFailed, repoTag, err)
	}

	// The container is brand new; any terminated override is obsolete.
	i.store.ClearState(repo)

	if err := i.refresh(ctx, repoTag); err != nil {
		return "", err
	}
	return tag, nil
}

// Update recreates an install from its existing container: same image
// reference, same configuration. The pull fetches whatever the tag
// points at now. Fails with ErrNotFound if no container exists.
func (i *Installer) Update(ctx context.Context, name string) (string, error) {
	inspect, err := i.gateway.InspectContainer(ctx, containerName(name))
	if err != nil {
		return "", err
	}

	repoTag := inspect.Config.Image
	containerConfig := inspect.Config
	hostConfig := inspect.HostConfig

	if err := i.gateway.RemoveContainer(ctx, containerName(name)); err != nil {
		return "", err
	}

	tag, err := i.installImage(ctx, repoTag, containerConfig, hostConfig)
	if err != nil {
		return "", err
	}

	i.metrics.RecordUpdate()
	return tag, nil
}

// Uninstall removes an install's container and image, then rebuilds
// the cache. Fails with ErrNotFound if no container exists; a failure
// partway leaves already-removed resources removed.
func (i *Installer) Uninstall(ctx context.Context, name string) error {
	inspect, err := i.gateway.InspectContainer(ctx, containerName(name))
	if err != nil {
		return err
	}

	if err := i.gateway.RemoveContainer(ctx, containerName(name)); err != nil {
		return err
	}
	if err := i.gateway.RemoveImage(ctx, inspect.Config.Image); err != nil {
		return err
	}

	i.store.RemoveInstalled(name)

	if err := i.refresh(ctx, ""); err != nil {
		return err
	}

	i.metrics.RecordUninstall()
	return nil
}

// QueryUpdates reports the name -> tag mapping of current installs,
// reconciled against the daemon first. Tags are mutable references;
// every reported install is update-eligible. A name narrows the result
// to that install.
func (i *Installer) QueryUpdates(ctx context.Context, name string) (map[string]string, error) {
	if err := i.refresh(ctx, ""); err != nil {
		return nil, err
	}

	snapshot := i.store.Snapshot()
	if name == "" {
		return snapshot, nil
	}

	result := make(map[string]string, 1)
	if tag, ok := snapshot[name]; ok {
		result[name] = tag
	}
	return result, nil
}

// mergeOptions folds install-time options into the container
// configuration: environment entries as NAME=VALUE (in stable order)
// and devices as read-write-mknod mappings.
func mergeOptions(containerConfig *container.Config, hostConfig *container.HostConfig, options *types.InstallOptions) {
	if options == nil {
		return
	}

	names := make([]string, 0, len(options.Env))
	for name := range options.Env {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		containerConfig.Env = append(containerConfig.Env, name+"="+options.Env[name])
	}

	for _, device := range options.Devices {
		hostConfig.Devices = append(hostConfig.Devices, container.DeviceMapping{
			PathOnHost:        device,
			PathInContainer:   device,
			CgroupPermissions: "rwm",
		})
	}
}

// applyConfigDefaults fills resource and network settings the
// descriptor leaves open.
func (i *Installer) applyConfigDefaults(hostConfig *container.HostConfig) {
	if hostConfig.Resources.Memory == 0 {
		hostConfig.Resources.Memory = i.config.MemoryLimitBytes()
	}
	if hostConfig.NetworkMode == "" && i.config.NetworkMode != "" {
		hostConfig.NetworkMode = container.NetworkMode(i.config.NetworkMode)
	}
}

// containerName derives the deterministic container name for an
// install; slashes are not valid in daemon names.
func containerName(repo string) string {
	return strings.ReplaceAll(repo, "/", "_")
}

// splitRepoTag splits "repo:tag" into its parts, tolerating registry
// ports ("registry:5000/repo"). Tag is empty if the reference has none.
func splitRepoTag(repoTag string) (repo, tag string) {
	colon := strings.LastIndex(repoTag, ":")
	if colon < 0 || colon < strings.LastIndex(repoTag, "/") {
		return repoTag, ""
	}
	return repoTag[:colon], repoTag[colon+1:]
}

// pathContains reports whether child equals parent or sits below it.
func pathContains(parent, child string) bool {
	parent = path.Clean(parent)
	child = path.Clean(child)
	return child == parent || strings.HasPrefix(child, parent+"/")
}
