package build

import (
	"fmt"
	"runtime/debug"
	"strings"
)

const (
	// AppMajor is the major version of the application.
	AppMajor uint = 0

	// AppMinor is the minor version of the application.
	AppMinor uint = 1

	// AppPatch is the patch version of the application.
	AppPatch uint = 0

	// AppPreRelease is appended to the semantic version when non-empty.
	AppPreRelease = "beta"
)

// These are set at link time with -ldflags "-X ...".
var (
	// Commit is the tag or describe output of the build.
	Commit string

	// CommitHash is the full commit hash of the build.
	CommitHash string

	// GoVersion is the toolchain used for the build.
	GoVersion string

	// RawTags is the comma separated list of build tags.
	RawTags string
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if GoVersion == "" {
		GoVersion = info.GoVersion
	}
	if CommitHash == "" {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				CommitHash = setting.Value
			}
		}
	}
}

// Version returns the semantic version of the application.
func Version() string {
	version := fmt.Sprintf("%d.%d.%d", AppMajor, AppMinor, AppPatch)
	if AppPreRelease != "" {
		version += "-" + AppPreRelease
	}

	return version
}

// Tags returns the build tags as a slice.
func Tags() []string {
	if RawTags == "" {
		return nil
	}

	return strings.Split(RawTags, ",")
}
