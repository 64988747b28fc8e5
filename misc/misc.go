// Package misc keeps small helpers needed across the program which do not
// deserve a package of their own.
package misc

import (
	"runtime/debug"
	"sync"
)

// Program name and version. Version is stamped by the linker on release
// builds, otherwise taken from the module build info.
var (
	appName = "emc"
	version = "development"
)

// GetAppName returns program name to be used in messages and file names.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	if version != "development" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return version
}

var getGitHash = sync.OnceValue(func() string {
	var revision, modified string
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				revision = s.Value
			case "vcs.modified":
				if s.Value == "true" {
					modified = "*"
				}
			}
		}
	}
	if len(revision) == 0 {
		return "unknown"
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	return revision + modified
})

// GetGitHash returns git revision program was built from.
func GetGitHash() string {
	return getGitHash()
}
