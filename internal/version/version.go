// Package version holds build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/kailas-cloud/dbgate/internal/version.Version=v1.2.0"
package version

var (
	// Version is the release tag, reported by /health.
	Version = "dev"
	// Commit is the source revision.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)
