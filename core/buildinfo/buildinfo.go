// Package buildinfo carries version stamps reported in the startup log line.
// Release builds set them with -ldflags, for example:
//
//	go build -ldflags "-X 'github.com/m3rciful/planbot/core/buildinfo.Version=v0.3.0' \
//	  -X 'github.com/m3rciful/planbot/core/buildinfo.Commit=$(git rev-parse --short HEAD)' \
//	  -X 'github.com/m3rciful/planbot/core/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)'" ./cmd/planbot
package buildinfo

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the short VCS revision.
	Commit = "local"
	// Date is the build time in RFC3339, empty for local builds.
	Date = ""
)
