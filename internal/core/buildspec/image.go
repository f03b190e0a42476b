package buildspec

import (
	"fmt"
	"slices"
	"strings"
)

// =============================================================================
// Image Contract
// =============================================================================

// ImageConfig is the part of an inspected image the descriptor constrains.
type ImageConfig struct {
	ExposedPorts []string // normalized "port/proto", e.g. "5000/tcp"
	Cmd          []string
	Entrypoint   []string
	WorkingDir   string
}

// CheckImage compares an inspected image with the descriptor.
// The image must declare exactly the descriptor's port, run the descriptor's
// command with no extra arguments and start in its working directory.
func CheckImage(img ImageConfig, d Descriptor) []Problem {
	var problems []Problem

	want := d.ExposedPort()
	if len(img.ExposedPorts) != 1 || img.ExposedPorts[0] != want {
		problems = append(problems, Problem{
			Subject: "ExposedPorts",
			Message: fmt.Sprintf("want exactly [%s], got [%s]", want, strings.Join(img.ExposedPorts, " ")),
		})
	}

	if len(img.Entrypoint) > 0 {
		problems = append(problems, Problem{
			Subject: "Entrypoint",
			Message: fmt.Sprintf("want none, got %q", img.Entrypoint),
		})
	}

	if !slices.Equal(img.Cmd, d.Command) {
		problems = append(problems, Problem{
			Subject: "Cmd",
			Message: fmt.Sprintf("want %q, got %q", d.Command, img.Cmd),
		})
	}

	if img.WorkingDir != d.WorkDir {
		problems = append(problems, Problem{
			Subject: "WorkingDir",
			Message: fmt.Sprintf("want %q, got %q", d.WorkDir, img.WorkingDir),
		})
	}

	return problems
}
