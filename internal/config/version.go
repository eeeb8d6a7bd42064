package config

import (
	"os"
	"runtime/debug"
)

// fallbackVersion is reported by builds without module information
const fallbackVersion = "0.1.0-dev"

// GetVersion returns APP_VERSION when set, otherwise the main module version
// recorded by the Go toolchain.
func GetVersion() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	return buildVersion(debug.ReadBuildInfo)
}

func buildVersion(read func() (*debug.BuildInfo, bool)) string {
	info, ok := read()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return fallbackVersion
	}
	return info.Main.Version
}
