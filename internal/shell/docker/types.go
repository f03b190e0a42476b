// Package docker reads image metadata from a Docker daemon.
package docker

import (
	"context"
	"sort"
	"strings"

	"github.com/docker/go-connections/nat"
	"github.com/komalmemorial/volunteer/internal/core/buildspec"
)

// Client is the subset of the Docker API the service needs.
type Client interface {
	Ping(ctx context.Context) error
	InspectImage(ctx context.Context, ref string) (*buildspec.ImageConfig, error)
	Close() error
}

// NormalizePorts converts raw exposed port keys ("5000", "5000/tcp",
// "53/UDP") to sorted "port/proto" strings. Keys that do not parse are
// returned unchanged so a check can report them.
func NormalizePorts(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		proto, port := nat.SplitProtoPort(r)
		p, err := nat.NewPort(strings.ToLower(proto), port)
		if err != nil || p.Int() == 0 {
			out = append(out, r)
			continue
		}
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}
