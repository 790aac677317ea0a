// Package docker copies files out of running containers with the docker CLI.
package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/drone/drone-test-collector/internal/archive"
)

// DefaultBinary is the docker executable used when none is configured.
const DefaultBinary = "docker"

// Container is a running container addressed by id or name. Its lifecycle is
// owned by the caller.
type Container struct {
	ID     string
	Binary string
}

// NewContainer returns a handle for the container id using binary, or
// DefaultBinary when binary is empty.
func NewContainer(id, binary string) *Container {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Container{ID: id, Binary: binary}
}

// CopyFromContainer runs `docker cp <id>:<path> -` and returns the tar stream
// it writes to stdout.
func (c *Container) CopyFromContainer(ctx context.Context, path string) (io.ReadCloser, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary(), c.copyArgs(path)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if isNotFound(msg) {
			return nil, fmt.Errorf("copy %s: %s: %w", path, msg, archive.ErrNotFound)
		}
		if msg != "" {
			return nil, fmt.Errorf("copy %s: %s: %w", path, msg, err)
		}
		return nil, fmt.Errorf("copy %s: %w", path, err)
	}
	return io.NopCloser(&stdout), nil
}

func (c *Container) binary() string {
	if c.Binary == "" {
		return DefaultBinary
	}
	return c.Binary
}

func (c *Container) copyArgs(path string) []string {
	return []string{"cp", c.ID + ":" + path, "-"}
}

// isNotFound reports whether docker's stderr says the source path is missing.
func isNotFound(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "could not find the file") ||
		strings.Contains(s, "no such container:path")
}

// ErrNoContainer is returned when no container id is configured.
var ErrNoContainer = errors.New("container id should not be empty")

// Validate checks that the handle addresses a container.
func (c *Container) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrNoContainer
	}
	return nil
}
