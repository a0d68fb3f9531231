package docker

import (
	"context"
	"io"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// DockerClientWrapper wraps the real Docker client to implement the
// DockerClientAPI interface.
type DockerClientWrapper struct {
	client *client.Client
}

// NewDockerClientWrapper creates a new wrapper around the Docker client
func NewDockerClientWrapper(cli *client.Client) DockerClientAPI {
	return &DockerClientWrapper{client: cli}
}

// NewDefaultClient connects to the local daemon socket, honoring the
// standard DOCKER_HOST environment overrides.
func NewDefaultClient() (DockerClientAPI, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	return NewDockerClientWrapper(cli), nil
}

func (w *DockerClientWrapper) ServerVersion(ctx context.Context) (types.Version, error) {
	return w.client.ServerVersion(ctx)
}

// Image operations
func (w *DockerClientWrapper) ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error) {
	return w.client.ImageList(ctx, options)
}

func (w *DockerClientWrapper) ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error) {
	return w.client.ImagePull(ctx, ref, options)
}

func (w *DockerClientWrapper) ImageRemove(ctx context.Context, imageID string, options image.RemoveOptions) ([]image.DeleteResponse, error) {
	return w.client.ImageRemove(ctx, imageID, options)
}

// Container operations
func (w *DockerClientWrapper) ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error) {
	return w.client.ContainerList(ctx, options)
}

func (w *DockerClientWrapper) ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig,
	networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error) {
	return w.client.ContainerCreate(ctx, config, hostConfig, networkingConfig, platform, containerName)
}

func (w *DockerClientWrapper) ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error {
	return w.client.ContainerStart(ctx, containerID, options)
}

func (w *DockerClientWrapper) ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error {
	return w.client.ContainerStop(ctx, containerID, options)
}

func (w *DockerClientWrapper) ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error) {
	return w.client.ContainerInspect(ctx, containerID)
}

func (w *DockerClientWrapper) ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error {
	return w.client.ContainerRemove(ctx, containerID, options)
}

func (w *DockerClientWrapper) IsErrNotFound(err error) bool {
	return cerrdefs.IsNotFound(err)
}
