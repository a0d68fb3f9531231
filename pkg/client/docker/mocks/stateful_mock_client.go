package mocks

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// MockDockerClient is a stateful in-memory implementation of
// DockerClientAPI for testing. Containers transition through
// created/running/exited the way the daemon would, and every call is
// tracked for assertions.
type MockDockerClient struct {
	mutex sync.RWMutex

	// Control behavior
	ShouldFailServerVersion    bool
	ShouldFailImageList        bool
	ShouldFailImagePull        bool
	ShouldFailImageRemove      bool
	ShouldFailContainerList    bool
	ShouldFailContainerCreate  bool
	ShouldFailContainerStart   bool
	ShouldFailContainerStop    bool
	ShouldFailContainerInspect bool
	ShouldFailContainerRemove  bool

	// Track method calls
	ServerVersionCalls    int
	ImageListCalls        []ImageListCall
	ImagePullCalls        []ImagePullCall
	ImageRemoveCalls      []ImageRemoveCall
	ContainerListCalls    []ContainerListCall
	ContainerCreateCalls  []ContainerCreateCall
	ContainerStartCalls   []ContainerStartCall
	ContainerStopCalls    []ContainerStopCall
	ContainerInspectCalls []ContainerInspectCall
	ContainerRemoveCalls  []ContainerRemoveCall

	// Mock data
	MockVersion    types.Version
	MockImages     []image.Summary
	MockContainers map[string]*MockContainer

	nextContainerID int
}

// Call tracking structs
type ImageListCall struct {
	Ctx     context.Context
	Options image.ListOptions
}

type ImagePullCall struct {
	Ctx     context.Context
	Ref     string
	Options image.PullOptions
}

type ImageRemoveCall struct {
	Ctx     context.Context
	ImageID string
	Options image.RemoveOptions
}

type ContainerListCall struct {
	Ctx     context.Context
	Options container.ListOptions
}

type ContainerCreateCall struct {
	Ctx              context.Context
	Config           *container.Config
	HostConfig       *container.HostConfig
	NetworkingConfig *network.NetworkingConfig
	Platform         *ocispec.Platform
	ContainerName    string
}

type ContainerStartCall struct {
	Ctx         context.Context
	ContainerID string
	Options     container.StartOptions
}

type ContainerStopCall struct {
	Ctx         context.Context
	ContainerID string
	Options     container.StopOptions
}

type ContainerInspectCall struct {
	Ctx         context.Context
	ContainerID string
}

type ContainerRemoveCall struct {
	Ctx         context.Context
	ContainerID string
	Options     container.RemoveOptions
}

// MockContainer holds the state of one simulated container.
type MockContainer struct {
	ID         string
	Name       string
	Image      string
	State      container.State
	Config     *container.Config
	HostConfig *container.HostConfig
	Mounts     []container.MountPoint
}

// NewMockDockerClient creates a mock daemon reporting a linux/amd64 engine.
func NewMockDockerClient() *MockDockerClient {
	return &MockDockerClient{
		MockVersion: types.Version{
			Version: "27.0.0-mock",
			Os:      "linux",
			Arch:    "amd64",
		},
		MockContainers:  make(map[string]*MockContainer),
		nextContainerID: 1,
	}
}

func (m *MockDockerClient) ServerVersion(ctx context.Context) (types.Version, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.ServerVersionCalls++

	if m.ShouldFailServerVersion {
		return types.Version{}, fmt.Errorf("mock server version error")
	}
	return m.MockVersion, nil
}

// Image operations
func (m *MockDockerClient) ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.ImageListCalls = append(m.ImageListCalls, ImageListCall{Ctx: ctx, Options: options})

	if m.ShouldFailImageList {
		return nil, fmt.Errorf("mock image list error")
	}

	refs := options.Filters.Get("reference")
	if len(refs) == 0 {
		return m.MockImages, nil
	}

	var filtered []image.Summary
	for _, img := range m.MockImages {
		for _, repoTag := range img.RepoTags {
			if matchesReference(repoTag, refs) {
				filtered = append(filtered, img)
				break
			}
		}
	}
	return filtered, nil
}

func (m *MockDockerClient) ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.ImagePullCalls = append(m.ImagePullCalls, ImagePullCall{Ctx: ctx, Ref: ref, Options: options})

	if m.ShouldFailImagePull {
		return nil, fmt.Errorf("mock image pull error")
	}

	// A successful pull makes the image appear in subsequent lists.
	m.addImageLocked(ref)

	pullOutput := `{"status":"Pulling from ` + ref + `"}` + "\n" + `{"status":"Download complete"}`
	return io.NopCloser(strings.NewReader(pullOutput)), nil
}

func (m *MockDockerClient) ImageRemove(ctx context.Context, imageID string, options image.RemoveOptions) ([]image.DeleteResponse, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.ImageRemoveCalls = append(m.ImageRemoveCalls, ImageRemoveCall{Ctx: ctx, ImageID: imageID, Options: options})

	if m.ShouldFailImageRemove {
		return nil, fmt.Errorf("mock image remove error")
	}

	kept := m.MockImages[:0]
	for _, img := range m.MockImages {
		remove := img.ID == imageID
		for _, repoTag := range img.RepoTags {
			if repoTag == imageID {
				remove = true
			}
		}
		if !remove {
			kept = append(kept, img)
		}
	}
	m.MockImages = kept

	return []image.DeleteResponse{{Deleted: imageID}}, nil
}

// Container operations
func (m *MockDockerClient) ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.ContainerListCalls = append(m.ContainerListCalls, ContainerListCall{Ctx: ctx, Options: options})

	if m.ShouldFailContainerList {
		return nil, fmt.Errorf("mock container list error")
	}

	var summaries []container.Summary
	for _, mockContainer := range m.MockContainers {
		if !options.All && !mockContainer.State.Running {
			continue
		}
		summaries = append(summaries, container.Summary{
			ID:    mockContainer.ID,
			Names: []string{"/" + mockContainer.Name},
			Image: mockContainer.Image,
			State: mockContainer.State.Status,
		})
	}
	return summaries, nil
}

func (m *MockDockerClient) ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig,
	networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error) {

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.ContainerCreateCalls = append(m.ContainerCreateCalls, ContainerCreateCall{
		Ctx: ctx, Config: config, HostConfig: hostConfig,
		NetworkingConfig: networkingConfig, Platform: platform, ContainerName: containerName})

	if m.ShouldFailContainerCreate {
		return container.CreateResponse{}, fmt.Errorf("mock container create error")
	}

	containerID := fmt.Sprintf("container-%d", m.nextContainerID)
	m.nextContainerID++

	imageRef := ""
	if config != nil {
		imageRef = config.Image
	}

	m.MockContainers[containerName] = &MockContainer{
		ID:         containerID,
		Name:       containerName,
		Image:      imageRef,
		Config:     config,
		HostConfig: hostConfig,
		State: container.State{
			Status:  "created",
			Running: false,
		},
	}

	return container.CreateResponse{ID: containerID}, nil
}

func (m *MockDockerClient) ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.ContainerStartCalls = append(m.ContainerStartCalls, ContainerStartCall{Ctx: ctx, ContainerID: containerID, Options: options})

	if m.ShouldFailContainerStart {
		return fmt.Errorf("mock container start error")
	}

	mockContainer, exists := m.lookupLocked(containerID)
	if !exists {
		return fmt.Errorf("No such container: %s", containerID)
	}
	mockContainer.State.Status = "running"
	mockContainer.State.Running = true
	return nil
}

func (m *MockDockerClient) ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.ContainerStopCalls = append(m.ContainerStopCalls, ContainerStopCall{Ctx: ctx, ContainerID: containerID, Options: options})

	if m.ShouldFailContainerStop {
		return fmt.Errorf("mock container stop error")
	}

	mockContainer, exists := m.lookupLocked(containerID)
	if !exists {
		return fmt.Errorf("No such container: %s", containerID)
	}
	mockContainer.State.Status = "exited"
	mockContainer.State.Running = false
	return nil
}

func (m *MockDockerClient) ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.ContainerInspectCalls = append(m.ContainerInspectCalls, ContainerInspectCall{Ctx: ctx, ContainerID: containerID})

	if m.ShouldFailContainerInspect {
		return container.InspectResponse{}, fmt.Errorf("mock container inspect error")
	}

	mockContainer, exists := m.lookupLocked(containerID)
	if !exists {
		return container.InspectResponse{}, fmt.Errorf("No such container: %s", containerID)
	}

	state := mockContainer.State
	inspectResp := container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			ID:         mockContainer.ID,
			Name:       "/" + mockContainer.Name,
			Image:      mockContainer.Image,
			State:      &state,
			HostConfig: mockContainer.HostConfig,
		},
		Mounts: mockContainer.Mounts,
	}
	inspectResp.Config = mockContainer.Config
	return inspectResp, nil
}

func (m *MockDockerClient) ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.ContainerRemoveCalls = append(m.ContainerRemoveCalls, ContainerRemoveCall{Ctx: ctx, ContainerID: containerID, Options: options})

	if m.ShouldFailContainerRemove {
		return fmt.Errorf("mock container remove error")
	}

	mockContainer, exists := m.lookupLocked(containerID)
	if !exists {
		return fmt.Errorf("No such container: %s", containerID)
	}
	delete(m.MockContainers, mockContainer.Name)
	return nil
}

func (m *MockDockerClient) IsErrNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "No such container") ||
		strings.Contains(err.Error(), "not found")
}

// Helper methods for setting up mock data

// AddMockImage makes an image visible to ImageList without a pull.
func (m *MockDockerClient) AddMockImage(repoTag string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.addImageLocked(repoTag)
}

// SetContainerState overrides the raw state of a mock container.
func (m *MockDockerClient) SetContainerState(name string, state container.State) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if mockContainer, exists := m.MockContainers[name]; exists {
		mockContainer.State = state
	}
}

// SetContainerMounts sets the mounts reported on inspect.
func (m *MockDockerClient) SetContainerMounts(name string, mounts []container.MountPoint) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if mockContainer, exists := m.MockContainers[name]; exists {
		mockContainer.Mounts = mounts
	}
}

func (m *MockDockerClient) addImageLocked(repoTag string) {
	for _, img := range m.MockImages {
		for _, existing := range img.RepoTags {
			if existing == repoTag {
				return
			}
		}
	}
	m.MockImages = append(m.MockImages, image.Summary{
		ID:       "sha256:mock-" + repoTag,
		RepoTags: []string{repoTag},
	})
}

// lookupLocked resolves a container by name or ID.
func (m *MockDockerClient) lookupLocked(ref string) (*MockContainer, bool) {
	if mockContainer, exists := m.MockContainers[ref]; exists {
		return mockContainer, true
	}
	for _, mockContainer := range m.MockContainers {
		if mockContainer.ID == ref {
			return mockContainer, true
		}
	}
	return nil, false
}

func matchesReference(repoTag string, refs []string) bool {
	for _, ref := range refs {
		if repoTag == ref {
			return true
		}
		// A bare repo reference matches any of its tags.
		if !strings.Contains(ref, ":") && strings.HasPrefix(repoTag, ref+":") {
			return true
		}
	}
	return false
}
