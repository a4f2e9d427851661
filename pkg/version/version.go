package version

import (
	"github.com/blang/semver/v4"
)

// Version is set at build time with -ldflags "-X github.com/gimlet-io/moe/pkg/version.Version=v1.2.3".
var Version = "v0.1.0"

// String returns the normalized semantic version, or "dev" for unreleased builds.
func String() string {
	v, err := semver.ParseTolerant(Version)
	if err != nil {
		return "dev"
	}
	return "v" + v.String()
}
