package dockerext

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/bookdeck/internal/config"
)

// fakeDocker records lifecycle calls against an in-memory container list.
type fakeDocker struct {
	existing []container.Summary

	pulled  []string
	created []string
	started []string
	stopped []string
	removed []string
}

func (f *fakeDocker) ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error) {
	f.pulled = append(f.pulled, ref)
	return io.NopCloser(strings.NewReader("{}")), nil
}

func (f *fakeDocker) ContainerCreate(ctx context.Context, cfg *container.Config, hostCfg *container.HostConfig,
	netCfg *network.NetworkingConfig, platform *ocispec.Platform,
	containerName string) (container.CreateResponse, error) {
	f.created = append(f.created, containerName)
	return container.CreateResponse{ID: "cid-1"}, nil
}

func (f *fakeDocker) ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error {
	f.started = append(f.started, containerID)
	return nil
}

func (f *fakeDocker) ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error {
	f.stopped = append(f.stopped, containerID)
	return nil
}

func (f *fakeDocker) ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error {
	f.removed = append(f.removed, containerID)
	return nil
}

func (f *fakeDocker) ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error) {
	return f.existing, nil
}

func testConfig() config.ExtractorConfig {
	return config.ExtractorConfig{
		Image:         "catchthetornado/pdf-extract-api:latest",
		ContainerName: "bookdeck-extractor",
		Port:          8000,
	}
}

func newTestManager(fake *fakeDocker) *Manager {
	return newManager(fake, testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestManager_UpCreatesAndStarts(t *testing.T) {
	t.Parallel()

	fake := &fakeDocker{}
	m := newTestManager(fake)

	require.NoError(t, m.Up(context.Background()))

	assert.Equal(t, []string{"catchthetornado/pdf-extract-api:latest"}, fake.pulled)
	assert.Equal(t, []string{"bookdeck-extractor"}, fake.created)
	assert.Equal(t, []string{"cid-1"}, fake.started)
}

func TestManager_UpAlreadyRunning(t *testing.T) {
	t.Parallel()

	fake := &fakeDocker{existing: []container.Summary{
		{ID: "cid-1", State: container.StateRunning},
	}}
	m := newTestManager(fake)

	require.NoError(t, m.Up(context.Background()))

	assert.Empty(t, fake.pulled)
	assert.Empty(t, fake.created)
	assert.Empty(t, fake.started)
}

func TestManager_UpRestartsStoppedContainer(t *testing.T) {
	t.Parallel()

	fake := &fakeDocker{existing: []container.Summary{
		{ID: "cid-1", State: container.StateExited},
	}}
	m := newTestManager(fake)

	require.NoError(t, m.Up(context.Background()))

	assert.Empty(t, fake.pulled)
	assert.Empty(t, fake.created)
	assert.Equal(t, []string{"cid-1"}, fake.started)
}

func TestManager_DownStopsAndRemoves(t *testing.T) {
	t.Parallel()

	fake := &fakeDocker{existing: []container.Summary{
		{ID: "cid-1", State: container.StateRunning},
	}}
	m := newTestManager(fake)

	require.NoError(t, m.Down(context.Background()))

	assert.Equal(t, []string{"cid-1"}, fake.stopped)
	assert.Equal(t, []string{"cid-1"}, fake.removed)
}

func TestManager_DownWithoutContainer(t *testing.T) {
	t.Parallel()

	fake := &fakeDocker{}
	m := newTestManager(fake)

	require.NoError(t, m.Down(context.Background()))

	assert.Empty(t, fake.stopped)
	assert.Empty(t, fake.removed)
}
