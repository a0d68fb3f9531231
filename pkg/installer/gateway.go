package installer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"

	dockerclient "github.com/TheAppgineer/extension-installer-docker/pkg/client/docker"
	"github.com/TheAppgineer/extension-installer-docker/pkg/installer/types"
	"github.com/TheAppgineer/extension-installer-docker/pkg/logging"
)

// The one platform the daemon side of this adapter supports.
const supportedOS = "linux"

// Gateway is the call-forwarding layer between the adapter and the
// container daemon. It does no sequencing of its own; each method is
// one daemon round trip with the adapter's error taxonomy applied.
type Gateway struct {
	cli         dockerclient.DockerClientAPI
	logger      logging.Logger
	pullLogTail int
}

func NewGateway(cli dockerclient.DockerClientAPI, logger logging.Logger, pullLogTail int) *Gateway {
	return &Gateway{
		cli:         cli,
		logger:      logger,
		pullLogTail: pullLogTail,
	}
}

// Version probes the daemon. An unreachable socket reports
// ErrDaemonUnavailable, a non-linux engine ErrUnsupportedHost.
func (g *Gateway) Version(ctx context.Context) (types.DaemonInfo, error) {
	version, err := g.cli.ServerVersion(ctx)
	if err != nil {
		return types.DaemonInfo{}, fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}
	if version.Os != supportedOS {
		return types.DaemonInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedHost, version.Os)
	}

	return types.DaemonInfo{
		Version: version.Version,
		OS:      version.Os,
		Arch:    version.Arch,
	}, nil
}

// ListImages lists images, restricted to one reference when ref is set.
func (g *Gateway) ListImages(ctx context.Context, ref string) ([]image.Summary, error) {
	options := image.ListOptions{}
	if ref != "" {
		options.Filters = filters.NewArgs(filters.Arg("reference", ref))
	}
	return g.cli.ImageList(ctx, options)
}

// ListContainers lists all containers, running or not.
func (g *Gateway) ListContainers(ctx context.Context) ([]container.Summary, error) {
	return g.cli.ContainerList(ctx, container.ListOptions{All: true})
}

// InspectContainer inspects a container by name. A missing container
// reports ErrNotFound.
func (g *Gateway) InspectContainer(ctx context.Context, name string) (container.InspectResponse, error) {
	inspect, err := g.cli.ContainerInspect(ctx, name)
	if err != nil {
		if g.cli.IsErrNotFound(err) {
			return container.InspectResponse{}, fmt.Errorf("container %s: %w", name, ErrNotFound)
		}
		return container.InspectResponse{}, err
	}
	return inspect, nil
}

// PullImage pulls an image and blocks until the pull stream completes.
// The trailing progress lines are logged at debug level.
func (g *Gateway) PullImage(ctx context.Context, repoTag string) error {
	g.logger.Infof("Pulling image: %s", repoTag)

	reader, err := g.cli.ImagePull(ctx, repoTag, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()

	// The pull only completes once the stream is drained.
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, reader); err != nil {
		return fmt.Errorf("error reading image pull response: %w", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) > g.pullLogTail {
		lines = lines[len(lines)-g.pullLogTail:]
	}
	for _, line := range lines {
		if line != "" {
			g.logger.Debugf("Pull output: %s", line)
		}
	}

	g.logger.Infof("Successfully pulled image: %s", repoTag)
	return nil
}

// CreateContainer creates a named container and returns its ID.
func (g *Gateway) CreateContainer(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, name string) (string, error) {
	resp, err := g.cli.ContainerCreate(ctx, config, hostConfig, nil, nil, name)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// StartContainer starts a container by name.
func (g *Gateway) StartContainer(ctx context.Context, name string) error {
	return g.cli.ContainerStart(ctx, name, container.StartOptions{})
}

// StopContainer stops a container by name, giving it the configured
// grace period.
func (g *Gateway) StopContainer(ctx context.Context, name string, timeout time.Duration) error {
	timeoutSeconds := int(timeout.Seconds())
	return g.cli.ContainerStop(ctx, name, container.StopOptions{Timeout: &timeoutSeconds})
}

// RemoveContainer removes a container by name.
func (g *Gateway) RemoveContainer(ctx context.Context, name string) error {
	err := g.cli.ContainerRemove(ctx, name, container.RemoveOptions{Force: true})
	if err != nil && g.cli.IsErrNotFound(err) {
		return fmt.Errorf("container %s: %w", name, ErrNotFound)
	}
	return err
}

// RemoveImage removes an image by reference.
func (g *Gateway) RemoveImage(ctx context.Context, repoTag string) error {
	_, err := g.cli.ImageRemove(ctx, repoTag, image.RemoveOptions{})
	if err != nil && g.cli.IsErrNotFound(err) {
		return fmt.Errorf("image %s: %w", repoTag, ErrNotFound)
	}
	return err
}
