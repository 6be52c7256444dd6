// Package version reports the version of asm8 the binary was built from.
package version

import (
	"runtime/debug"
	"strings"
)

// Default is the version reported when the build carries no module information,
// ex. `go run` from a checkout.
const Default = "dev"

// modulePath is used to find asm8 among the dependencies of another main module.
const modulePath = "github.com/inufuto/asm8"

// GetVersion returns the version of asm8 in the build, or Default.
func GetVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Default
	}
	return versionOf(info)
}

func versionOf(info *debug.BuildInfo) string {
	if info.Main.Path == modulePath {
		return normalize(info.Main.Version)
	}
	for _, dep := range info.Deps {
		if dep.Path == modulePath {
			if dep.Replace != nil {
				return normalize(dep.Replace.Version)
			}
			return normalize(dep.Version)
		}
	}
	return Default
}

// normalize maps the version of a local build, "(devel)" or empty, to Default.
func normalize(v string) string {
	if v == "" || strings.HasPrefix(v, "(") {
		return Default
	}
	return v
}
