package version

// Flag contains extra info about the version. It is helpful for tracking
// versions while developing and is empty for releases.
const Flag = ""

var (
	// Version is the full version string
	Version = "0.1.0"

	// GitCommit is set with --ldflags "-X version.GitCommit=$(git rev-parse HEAD)"
	GitCommit string
)

func init() {
	Version = full(Version, Flag, GitCommit)
}

func full(version, flag, commit string) string {
	if flag != "" {
		version += "-" + flag
	}
	if len(commit) >= 8 {
		version += "-" + commit[:8]
	}
	return version
}
