package installer

import (
	"context"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheAppgineer/extension-installer-docker/pkg/installer/types"
)

func TestStart_RunsContainer(t *testing.T) {
	inst, cli, _ := newTestInstaller(t, testConfig())
	ctx := context.Background()

	_, err := inst.Install(ctx, appDescriptor(), nil)
	require.NoError(t, err)

	require.NoError(t, inst.Start(ctx, "acme/app"))

	require.Len(t, cli.ContainerStartCalls, 1)
	assert.Equal(t, "acme_app", cli.ContainerStartCalls[0].ContainerID)

	status, err := inst.Status(ctx, "acme/app")
	require.NoError(t, err)
	assert.Equal(t, types.StateRunning, status.State)
}

func TestStart_FailureIsReturned(t *testing.T) {
	inst, cli, _ := newTestInstaller(t, testConfig())
	ctx := context.Background()

	_, err := inst.Install(ctx, appDescriptor(), nil)
	require.NoError(t, err)

	cli.ShouldFailContainerStart = true
	assert.Error(t, inst.Start(ctx, "acme/app"))

	// The cached state is untouched on failure.
	status, err := inst.Status(ctx, "acme/app")
	require.NoError(t, err)
	assert.Equal(t, types.StateStopped, status.State)
}

func TestStop_StopsRunningContainer(t *testing.T) {
	cfg := testConfig()
	inst, cli, _ := newTestInstaller(t, cfg)
	ctx := context.Background()

	_, err := inst.Install(ctx, appDescriptor(), nil)
	require.NoError(t, err)
	require.NoError(t, inst.Start(ctx, "acme/app"))

	require.NoError(t, inst.Stop(ctx, "acme/app"))

	require.Len(t, cli.ContainerStopCalls, 1)
	stopCall := cli.ContainerStopCalls[0]
	assert.Equal(t, "acme_app", stopCall.ContainerID)
	require.NotNil(t, stopCall.Options.Timeout)
	assert.Equal(t, int(cfg.StopTimeout.Seconds()), *stopCall.Options.Timeout)

	status, err := inst.Status(ctx, "acme/app")
	require.NoError(t, err)
	assert.Equal(t, types.StateStopped, status.State)
}

func TestTerminate_PinsTerminatedState(t *testing.T) {
	inst, cli, _ := newTestInstaller(t, testConfig())
	ctx := context.Background()

	_, err := inst.Install(ctx, appDescriptor(), nil)
	require.NoError(t, err)
	require.NoError(t, inst.Start(ctx, "acme/app"))

	require.NoError(t, inst.Terminate(ctx, "acme/app"))

	status, err := inst.Status(ctx, "acme/app")
	require.NoError(t, err)
	assert.Equal(t, types.StateTerminated, status.State)

	// The daemon restarting the container does not revive it.
	cli.SetContainerState("acme_app", container.State{Status: "running", Running: true})
	_, err = inst.QueryUpdates(ctx, "")
	require.NoError(t, err)

	status, err = inst.Status(ctx, "acme/app")
	require.NoError(t, err)
	assert.Equal(t, types.StateTerminated, status.State)
}

func TestTerminate_OnStoppedContainer(t *testing.T) {
	inst, _, _ := newTestInstaller(t, testConfig())
	ctx := context.Background()

	_, err := inst.Install(ctx, appDescriptor(), nil)
	require.NoError(t, err)
	require.NoError(t, inst.Start(ctx, "acme/app"))
	require.NoError(t, inst.Stop(ctx, "acme/app"))

	require.NoError(t, inst.Terminate(ctx, "acme/app"))

	status, err := inst.Status(ctx, "acme/app")
	require.NoError(t, err)
	assert.Equal(t, types.StateTerminated, status.State)
}

func TestTerminate_ReinstallClearsTermination(t *testing.T) {
	inst, _, _ := newTestInstaller(t, testConfig())
	ctx := context.Background()

	_, err := inst.Install(ctx, appDescriptor(), nil)
	require.NoError(t, err)
	require.NoError(t, inst.Start(ctx, "acme/app"))
	require.NoError(t, inst.Terminate(ctx, "acme/app"))

	// Reinstalling ends the terminated state.
	require.NoError(t, inst.Uninstall(ctx, "acme/app"))
	_, err = inst.Install(ctx, appDescriptor(), nil)
	require.NoError(t, err)

	status, err := inst.Status(ctx, "acme/app")
	require.NoError(t, err)
	assert.Equal(t, types.StateStopped, status.State)
}

func TestLifecycle_UnknownContainer(t *testing.T) {
	inst, cli, _ := newTestInstaller(t, testConfig())
	ctx := context.Background()

	assert.Error(t, inst.Start(ctx, "acme/ghost"))
	assert.Error(t, inst.Stop(ctx, "acme/ghost"))
	assert.Error(t, inst.Terminate(ctx, "acme/ghost"))

	// Every attempt addressed the derived container name.
	require.Len(t, cli.ContainerStartCalls, 1)
	assert.Equal(t, "acme_ghost", cli.ContainerStartCalls[0].ContainerID)
}
