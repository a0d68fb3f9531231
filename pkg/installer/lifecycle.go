package installer

import (
	"context"

	"github.com/TheAppgineer/extension-installer-docker/pkg/installer/types"
)

// Start starts the install's container and refreshes its cached state.
// The start error is returned rather than dropped; silently swallowing
// it left callers unable to tell a dead start from a slow one.
func (i *Installer) Start(ctx context.Context, name string) error {
	if err := i.gateway.StartContainer(ctx, containerName(name)); err != nil {
		return err
	}
	return i.refreshState(ctx, name)
}

// Stop stops the install's container and refreshes its cached state.
func (i *Installer) Stop(ctx context.Context, name string) error {
	if err := i.gateway.StopContainer(ctx, containerName(name), i.config.StopTimeout); err != nil {
		return err
	}
	return i.refreshState(ctx, name)
}

// Terminate stops the install's container for good: once the daemon
// reports it exited, the cached state is pinned to terminated and no
// later daemon-reported state revives it until reinstall or removal.
// Terminate acts regardless of the current cached state; stopping an
// already stopped container is a no-op on the daemon side.
func (i *Installer) Terminate(ctx context.Context, name string) error {
	if err := i.gateway.StopContainer(ctx, containerName(name), i.config.StopTimeout); err != nil {
		return err
	}

	inspect, err := i.gateway.InspectContainer(ctx, containerName(name))
	if err != nil {
		return err
	}

	if inspect.State != nil {
		i.store.SetRawState(name, inspect.State.Status)
		if inspect.State.Status == types.RawStateExited {
			i.store.MarkTerminated(name)
			i.logger.Infof("Install terminated: %s", name)
		}
	}
	return nil
}

// refreshState re-reads one container's raw state into the cache.
func (i *Installer) refreshState(ctx context.Context, name string) error {
	inspect, err := i.gateway.InspectContainer(ctx, containerName(name))
	if err != nil {
		return err
	}
	if inspect.State != nil {
		i.store.SetRawState(name, inspect.State.Status)
	}
	return nil
}
