package installer

import (
	"context"

	"github.com/TheAppgineer/extension-installer-docker/pkg/installer/types"
)

// Status reports the normalized status of one install, or, with an
// empty name, probes the daemon itself and reports its engine version.
func (i *Installer) Status(ctx context.Context, name string) (types.Status, error) {
	if name == "" {
		info, err := i.gateway.Version(ctx)
		if err != nil {
			return types.Status{}, err
		}
		return types.Status{State: types.StateInstalled, Version: info.Version}, nil
	}

	tag, ok := i.store.InstalledTag(name)
	if !ok {
		return types.Status{State: types.StateNotInstalled}, nil
	}

	return types.Status{State: i.normalizedState(name), Version: tag}, nil
}

// normalizedState maps the cached raw daemon state onto the generic
// vocabulary. An install with no cached state is installed but its
// lifecycle is unknown.
func (i *Installer) normalizedState(name string) types.State {
	record, ok := i.store.State(name)
	if !ok {
		return types.StateInstalled
	}

	switch {
	case record.Terminated:
		return types.StateTerminated
	case record.Raw == types.RawStateRunning:
		return types.StateRunning
	case record.Raw == types.RawStateCreated, record.Raw == types.RawStateExited:
		return types.StateStopped
	default:
		return types.StateInstalled
	}
}

// refresh reconciles the cache against the daemon. With a repoTag it
// is scoped to that reference; otherwise the whole install record is
// rebuilt from a full image query. Container states are folded in from
// a full container listing either way; terminated overrides survive.
func (i *Installer) refresh(ctx context.Context, repoTag string) error {
	if repoTag == "" {
		images, err := i.gateway.ListImages(ctx, "")
		if err != nil {
			return err
		}

		installed := make(map[string]string)
		for _, img := range images {
			for _, imageRepoTag := range img.RepoTags {
				if repo, tag := splitRepoTag(imageRepoTag); tag != "" {
					installed[repo] = tag
				}
			}
		}
		i.store.ReplaceInstalled(installed)
	} else {
		images, err := i.gateway.ListImages(ctx, repoTag)
		if err != nil {
			return err
		}

		repo, _ := splitRepoTag(repoTag)
		if len(images) == 0 {
			i.store.RemoveInstalled(repo)
		}
		for _, img := range images {
			for _, imageRepoTag := range img.RepoTags {
				if imageRepo, tag := splitRepoTag(imageRepoTag); imageRepo == repo && tag != "" {
					i.store.SetInstalled(imageRepo, tag)
				}
			}
		}
	}

	containers, err := i.gateway.ListContainers(ctx)
	if err != nil {
		return err
	}
	for _, summary := range containers {
		repo, _ := splitRepoTag(summary.Image)
		if _, ok := i.store.InstalledTag(repo); ok {
			i.store.SetRawState(repo, summary.State)
		}
	}
	return nil
}
