// Package buildspec describes the container image this service ships in.
//
// A Descriptor captures the build contract: which dependency manifests are
// copied first (so the download layer is reused while they stay unchanged),
// the working directory, the single declared port and the default command.
// The package renders the descriptor as a Dockerfile, checks that a build
// context holds every input the build needs, and compares an inspected image
// configuration against the descriptor.
//
// Everything here is pure: build contexts arrive as fs.FS values and image
// configurations as plain structs.
package buildspec
