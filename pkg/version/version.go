// Package version exposes the treedex build version.
package version

// Version is the current treedex version. Overridden at release time via
// -ldflags "-X github.com/treekit/treedex/pkg/version.Version=...".
var Version = "0.3.0-dev"
