package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/client"
	"github.com/komalmemorial/volunteer/internal/core/buildspec"
)

// =============================================================================
// Docker Client Implementation
// =============================================================================

// DockerClient implements the Client interface using the Docker SDK.
type DockerClient struct {
	cli *client.Client
}

// NewDockerClient creates a new Docker client.
// If host is empty, it uses the default Docker host from environment.
func NewDockerClient(host string) (*DockerClient, error) {
	opts := []client.Opt{
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, NewDockerError("NewDockerClient", "", "", "failed to create client", ErrConnectionFailed)
	}

	return &DockerClient{cli: cli}, nil
}

// Ping checks if Docker daemon is reachable.
func (d *DockerClient) Ping(ctx context.Context) error {
	if _, err := d.cli.Ping(ctx); err != nil {
		return NewDockerError("Ping", "", "", fmt.Sprintf("failed to ping docker: %v", err), ErrConnectionFailed)
	}
	return nil
}

// Close closes the Docker client connection.
func (d *DockerClient) Close() error {
	return d.cli.Close()
}

// =============================================================================
// Image Operations
// =============================================================================

// InspectImage returns the runtime configuration recorded in a local image.
func (d *DockerClient) InspectImage(ctx context.Context, ref string) (*buildspec.ImageConfig, error) {
	resp, _, err := d.cli.ImageInspectWithRaw(ctx, ref)
	if err != nil {
		if client.IsErrNotFound(err) {
			return nil, NewDockerError("InspectImage", "image", ref, "image not found", ErrImageNotFound)
		}
		return nil, NewDockerError("InspectImage", "image", ref, err.Error(), err)
	}
	if resp.Config == nil {
		return nil, NewDockerError("InspectImage", "image", ref, "image has no config", ErrInvalidImage)
	}

	ports := make([]string, 0, len(resp.Config.ExposedPorts))
	for p := range resp.Config.ExposedPorts {
		ports = append(ports, string(p))
	}

	return &buildspec.ImageConfig{
		ExposedPorts: NormalizePorts(ports),
		Cmd:          append([]string(nil), resp.Config.Cmd...),
		Entrypoint:   append([]string(nil), resp.Config.Entrypoint...),
		WorkingDir:   resp.Config.WorkingDir,
	}, nil
}
