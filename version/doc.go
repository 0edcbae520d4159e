// Package version exposes build metadata for adminctl.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/adminkit/version.Version=1.0.0" ./cmd/adminctl
package version
