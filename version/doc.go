// Package version carries the build metadata of the scribe binary.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags and completed from the embedded VCS build info:
//
//	go build -ldflags "-X github.com/kbukum/scribe/version.Version=1.0.0" ./cmd/scribe
package version
