package version

import "fmt"

// Version is set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/eventsite/internal/version.Version=v0.3.0".
var Version = "unknown"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("eventsite %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
