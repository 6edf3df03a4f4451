package internal

import (
	"fmt"
	"runtime"
	"strings"
)

// Name used for the binary, the state directory prefix, and the user
// defaults path.
const Name = "avocado"

// Version reported by builds made outside the release pipeline.
const devVersion = "0.0.0-dev"

var (
	version   = "" // Release version (e.g., "0.4.1"), set via ldflags.
	gitCommit = "" // Short commit hash, set via ldflags.
)

// Returns the release version with any "v" prefix stripped, or the dev
// placeholder when the binary was built without release metadata.
func Version() string {
	v := strings.TrimSpace(version)
	if v == "" {
		return devVersion
	}
	return strings.TrimPrefix(strings.ToLower(v), "v")
}

// Returns the short git commit hash, or "unknown" when unset.
func GitCommit() string {
	c := strings.TrimSpace(gitCommit)
	if c == "" {
		return "unknown"
	}
	return c
}

// Whether the binary carries full release metadata. Local builds leave the
// version or commit unset.
func IsRelease() bool {
	return strings.TrimSpace(version) != "" && strings.TrimSpace(gitCommit) != ""
}

// Returns the line shown by 'avocado version':
//
//	avocado 0.4.1 (a1b2c3d, linux/amd64)
//
// Local builds report the dev placeholder and an unknown commit.
func VersionString() string {
	return fmt.Sprintf("%s %s (%s, %s/%s)",
		Name, Version(), GitCommit(), runtime.GOOS, runtime.GOARCH)
}
