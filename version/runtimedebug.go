package version

import (
	"errors"
	"runtime/debug"
)

// Devel is reported when the binary carries no module version.
const Devel = "(devel)"

// BuildInfo returns the build information
func BuildInfo() (*debug.BuildInfo, error) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, errors.New("fetching build info failed")
	}

	if bi == nil {
		return nil, errors.New("build information is empty")
	}

	return bi, nil
}

// Version returns the version of the main module, or Devel when it is unknown.
func Version() string {
	bi, err := BuildInfo()
	if err != nil {
		return Devel
	}

	return FromBuildInfo(bi)
}

// FromBuildInfo extracts the main module version from bi. Development builds
// are suffixed with the short VCS revision when one is recorded.
func FromBuildInfo(bi *debug.BuildInfo) string {
	v := bi.Main.Version
	if v == "" {
		v = Devel
	}
	if v != Devel {
		return v
	}

	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			rev := s.Value
			if len(rev) > 12 {
				rev = rev[:12]
			}
			return v + "+" + rev
		}
	}

	return v
}
