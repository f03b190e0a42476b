package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/komalmemorial/volunteer/internal/core/buildspec"
	"github.com/komalmemorial/volunteer/internal/shell/docker"
)

// dockerfileCmd prints the Dockerfile for the service image.
func dockerfileCmd(w io.Writer) int {
	out, err := buildspec.Render(buildspec.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "dockerfile: %v\n", err)
		return ExitConfigError
	}
	fmt.Fprint(w, out)
	return ExitSuccess
}

// preflightCmd checks that dir holds every input the image build needs.
func preflightCmd(w io.Writer, dir string) int {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(w, "%s: build context is not a directory\n", dir)
		return ExitCheckFailed
	}

	problems := buildspec.Preflight(os.DirFS(dir), buildspec.Default())
	return reportProblems(w, "build context "+dir, problems)
}

// verifyImageCmd inspects ref and checks it against the image descriptor.
func verifyImageCmd(ctx context.Context, w io.Writer, cli docker.Client, ref string) int {
	img, err := cli.InspectImage(ctx, ref)
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", ref, err)
		if errors.Is(err, docker.ErrImageNotFound) {
			return ExitCheckFailed
		}
		return ExitDockerError
	}

	problems := buildspec.CheckImage(*img, buildspec.Default())
	return reportProblems(w, "image "+ref, problems)
}

func reportProblems(w io.Writer, subject string, problems []buildspec.Problem) int {
	if len(problems) == 0 {
		fmt.Fprintf(w, "%s: ok\n", subject)
		return ExitSuccess
	}
	for _, p := range problems {
		fmt.Fprintf(w, "%s: %s\n", subject, p)
	}
	return ExitCheckFailed
}
