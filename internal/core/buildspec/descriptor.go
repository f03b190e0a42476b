package buildspec

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
)

// =============================================================================
// Descriptor
// =============================================================================

// Default values for the service image.
const (
	DefaultBuilderImage = "golang:1.24-bookworm"
	DefaultRuntimeImage = "debian:bookworm-slim"
	DefaultWorkDir      = "/app"
	DefaultEntry        = "./cmd/volunteer"
	DefaultBinary       = "volunteer"
	DefaultPort         = 5000
)

var (
	ErrInvalidPort     = errors.New("port must be between 1 and 65535")
	ErrInvalidWorkDir  = errors.New("workdir must be an absolute path")
	ErrNoManifest      = errors.New("at least one dependency manifest is required")
	ErrNoCommand       = errors.New("command must not be empty")
	ErrNoEntry         = errors.New("entry package is required")
	ErrInvalidManifest = errors.New("manifest must be a plain file name in the context root")
)

// Descriptor is the build contract for the service image.
type Descriptor struct {
	BuilderImage string
	RuntimeImage string
	WorkDir      string
	Manifests    []string // copied and installed before the rest of the tree
	Optional     []string // copied with the manifests when present
	Entry        string   // package built into Binary
	Binary       string
	Assets       []string // context paths copied next to the binary
	Port         int
	Command      []string
}

// Default returns the descriptor of this repository's image.
func Default() Descriptor {
	return Descriptor{
		BuilderImage: DefaultBuilderImage,
		RuntimeImage: DefaultRuntimeImage,
		WorkDir:      DefaultWorkDir,
		Manifests:    []string{"go.mod"},
		Optional:     []string{"go.sum"},
		Entry:        DefaultEntry,
		Binary:       DefaultBinary,
		Assets:       []string{"static"},
		Port:         DefaultPort,
		Command:      []string{path.Join(DefaultWorkDir, DefaultBinary)},
	}
}

// Validate checks the descriptor for values the build cannot use.
func (d Descriptor) Validate() error {
	if d.Port < 1 || d.Port > 65535 {
		return fmt.Errorf("%w: got %d", ErrInvalidPort, d.Port)
	}
	if !path.IsAbs(d.WorkDir) {
		return fmt.Errorf("%w: got %q", ErrInvalidWorkDir, d.WorkDir)
	}
	if len(d.Manifests) == 0 {
		return ErrNoManifest
	}
	for _, m := range slices.Concat(d.Manifests, d.Optional) {
		if m == "" || strings.ContainsAny(m, "/*?[") {
			return fmt.Errorf("%w: got %q", ErrInvalidManifest, m)
		}
	}
	if d.Entry == "" || d.Binary == "" {
		return ErrNoEntry
	}
	if len(d.Command) == 0 || d.Command[0] == "" {
		return ErrNoCommand
	}
	return nil
}

// ExposedPort returns the port in Docker's "port/proto" notation.
func (d Descriptor) ExposedPort() string {
	return fmt.Sprintf("%d/tcp", d.Port)
}

// entryDir returns the entry package as a slash path relative to the context.
func (d Descriptor) entryDir() string {
	return path.Clean(strings.TrimPrefix(d.Entry, "./"))
}

// =============================================================================
// Problems
// =============================================================================

// Problem is a single reason a build context or image breaks the contract.
type Problem struct {
	Subject string // file, directory or image field
	Message string
}

func (p Problem) String() string {
	return p.Subject + ": " + p.Message
}
