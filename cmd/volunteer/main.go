// Package main provides the volunteer binary.
//
// Usage:
//
//	volunteer [flags]                 - Run the HTTP service
//	volunteer [flags] dockerfile      - Print the service Dockerfile
//	volunteer [flags] preflight [dir] - Check a build context (default ".")
//	volunteer [flags] verify-image <ref> - Check a built image against the Dockerfile contract
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/komalmemorial/volunteer/internal/shell/docker"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("volunteer", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config file")
	envFile := fs.String("env-file", ".env", "Path to .env file (ignored when missing)")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return ExitConfigError
	}

	// Handle version flag
	if *showVersion {
		fmt.Printf("volunteer %s (built %s)\n", Version, BuildTime)
		return ExitSuccess
	}

	rest := fs.Args()
	if len(rest) > 0 {
		switch rest[0] {
		case "dockerfile":
			return dockerfileCmd(os.Stdout)
		case "preflight":
			dir := "."
			if len(rest) > 1 {
				dir = rest[1]
			}
			return preflightCmd(os.Stdout, dir)
		case "verify-image", "serve":
		default:
			fmt.Fprintf(os.Stderr, "unknown command: %s\n", rest[0])
			return ExitConfigError
		}
	}

	if err := LoadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return ExitConfigError
	}

	// Load configuration
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return ExitConfigError
	}

	if len(rest) > 0 && rest[0] == "verify-image" {
		if len(rest) < 2 {
			fmt.Fprintln(os.Stderr, "usage: volunteer verify-image <ref>")
			return ExitConfigError
		}
		return runVerifyImage(cfg, rest[1])
	}

	return serve(cfg, *configPath)
}

func serve(cfg *Config, configPath string) int {
	// Setup logger
	logger := SetupLogger(cfg)
	logger.Info("starting volunteer",
		"version", Version,
		"config", configPath,
	)

	// Create server
	server, err := NewServer(cfg, logger)
	if err != nil {
		if sErr, ok := err.(*ServerError); ok {
			logger.Error("failed to create server",
				"error", sErr.Err,
				"operation", sErr.Op,
			)
			return sErr.ExitCode
		}
		logger.Error("failed to create server", "error", err)
		return ExitConfigError
	}

	// Start server
	ctx := context.Background()
	if err := server.Start(ctx); err != nil {
		if sErr, ok := err.(*ServerError); ok {
			logger.Error("server error",
				"error", sErr.Err,
				"operation", sErr.Op,
			)
			return sErr.ExitCode
		}
		logger.Error("server error", "error", err)
		return ExitConfigError
	}

	return ExitSuccess
}

func runVerifyImage(cfg *Config, ref string) int {
	cli, err := docker.NewDockerClient(cfg.Docker.Host)
	if err != nil {
		fmt.Fprintf(os.Stderr, "docker error: %v\n", err)
		return ExitDockerError
	}
	defer cli.Close()

	return verifyImageCmd(context.Background(), os.Stdout, cli, ref)
}
