// Package dockerext manages the lifecycle of the local extraction service
// container through the Docker Engine API, so the pipeline can bring its own
// OCR backend up and down without a separate compose setup.
package dockerext

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/phrazzld/bookdeck/internal/config"
)

// servicePort is the port the extraction service listens on inside the
// container.
const servicePort = "8000/tcp"

// dockerAPI is the slice of the Docker Engine client the manager needs.
// client.Client satisfies it; tests substitute a fake.
type dockerAPI interface {
	ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig, platform *ocispec.Platform,
		containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// Manager starts and stops the extraction service container.
type Manager struct {
	cli    dockerAPI
	cfg    config.ExtractorConfig
	logger *slog.Logger
}

// NewManager creates a Manager connected to the local Docker daemon.
func NewManager(cfg config.ExtractorConfig, logger *slog.Logger) (*Manager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to docker daemon: %w", err)
	}
	return newManager(cli, cfg, logger), nil
}

func newManager(cli dockerAPI, cfg config.ExtractorConfig, logger *slog.Logger) *Manager {
	return &Manager{
		cli:    cli,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "dockerext")),
	}
}

// Up pulls the configured image if needed and starts the extraction service
// container with the service port published on the configured host port.
// Starting an already-running container is a no-op.
func (m *Manager) Up(ctx context.Context) error {
	existing, err := m.find(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.State == container.StateRunning {
			m.logger.InfoContext(ctx, "extractor already running",
				slog.String("container", m.cfg.ContainerName))
			return nil
		}
		if err := m.cli.ContainerStart(ctx, existing.ID, container.StartOptions{}); err != nil {
			return fmt.Errorf("failed to start extractor container: %w", err)
		}
		m.logger.InfoContext(ctx, "extractor restarted",
			slog.String("container", m.cfg.ContainerName))
		return nil
	}

	if err := m.pull(ctx); err != nil {
		return err
	}

	hostPort := fmt.Sprintf("%d", m.cfg.Port)
	created, err := m.cli.ContainerCreate(ctx,
		&container.Config{
			Image:        m.cfg.Image,
			ExposedPorts: nat.PortSet{servicePort: struct{}{}},
		},
		&container.HostConfig{
			PortBindings: nat.PortMap{
				servicePort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: hostPort}},
			},
		},
		nil, nil, m.cfg.ContainerName)
	if err != nil {
		return fmt.Errorf("failed to create extractor container: %w", err)
	}

	if err := m.cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start extractor container: %w", err)
	}

	m.logger.InfoContext(ctx, "extractor started",
		slog.String("container", m.cfg.ContainerName),
		slog.String("image", m.cfg.Image),
		slog.String("port", hostPort))

	return nil
}

// Down stops and removes the extraction service container. A container that
// does not exist is a no-op.
func (m *Manager) Down(ctx context.Context) error {
	existing, err := m.find(ctx)
	if err != nil {
		return err
	}
	if existing == nil {
		m.logger.InfoContext(ctx, "extractor not running",
			slog.String("container", m.cfg.ContainerName))
		return nil
	}

	if err := m.cli.ContainerStop(ctx, existing.ID, container.StopOptions{}); err != nil {
		return fmt.Errorf("failed to stop extractor container: %w", err)
	}
	if err := m.cli.ContainerRemove(ctx, existing.ID, container.RemoveOptions{}); err != nil {
		return fmt.Errorf("failed to remove extractor container: %w", err)
	}

	m.logger.InfoContext(ctx, "extractor stopped",
		slog.String("container", m.cfg.ContainerName))

	return nil
}

// find returns the managed container in any state, or nil if it does not
// exist.
func (m *Manager) find(ctx context.Context) (*container.Summary, error) {
	containers, err := m.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", m.cfg.ContainerName)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	if len(containers) == 0 {
		return nil, nil
	}
	return &containers[0], nil
}

// pull fetches the configured image, draining the progress stream.
func (m *Manager) pull(ctx context.Context) error {
	m.logger.InfoContext(ctx, "pulling extractor image", slog.String("image", m.cfg.Image))

	reader, err := m.cli.ImagePull(ctx, m.cfg.Image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull extractor image: %w", err)
	}
	defer func() { _ = reader.Close() }()

	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("failed to pull extractor image: %w", err)
	}

	return nil
}
