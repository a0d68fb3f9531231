package docker

import (
	"context"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// DockerClientAPI defines the slice of the Docker Engine API the
// installer adapter talks to.
type DockerClientAPI interface {
	// ServerVersion reports the engine version, OS and architecture.
	ServerVersion(ctx context.Context) (types.Version, error)

	// ImageList lists images, optionally filtered.
	ImageList(
		ctx context.Context,
		options image.ListOptions,
	) ([]image.Summary, error)

	// ImagePull pulls an image with the given reference. The returned
	// stream must be drained for the pull to complete.
	ImagePull(
		ctx context.Context,
		refStr string,
		options image.PullOptions,
	) (io.ReadCloser, error)

	// ImageRemove removes an image by reference or ID.
	ImageRemove(
		ctx context.Context,
		imageID string,
		options image.RemoveOptions,
	) ([]image.DeleteResponse, error)

	// ContainerList lists containers, optionally filtered.
	ContainerList(
		ctx context.Context,
		options container.ListOptions,
	) ([]container.Summary, error)

	// ContainerCreate creates a new container with the given configuration.
	ContainerCreate(
		ctx context.Context,
		config *container.Config,
		hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig,
		platform *ocispec.Platform,
		containerName string,
	) (container.CreateResponse, error)

	// ContainerStart starts a container by name or ID.
	ContainerStart(
		ctx context.Context,
		containerID string,
		options container.StartOptions,
	) error

	// ContainerStop stops a container by name or ID.
	ContainerStop(
		ctx context.Context,
		containerID string,
		options container.StopOptions,
	) error

	// ContainerInspect inspects a container by name or ID.
	ContainerInspect(
		ctx context.Context,
		containerID string,
	) (container.InspectResponse, error)

	// ContainerRemove removes a container by name or ID.
	ContainerRemove(
		ctx context.Context,
		containerID string,
		options container.RemoveOptions,
	) error

	// IsErrNotFound reports whether an error from the daemon means the
	// referenced object does not exist.
	IsErrNotFound(err error) bool
}
