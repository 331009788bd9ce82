package config

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// fallbackVersion is reported when nothing better is known
const fallbackVersion = "0.1.0"

// GetVersion returns version from environment variable, VERSION file or build info
func GetVersion() string {
	// CI/CD sets APP_VERSION
	if envVersion := os.Getenv("APP_VERSION"); envVersion != "" {
		return envVersion
	}

	if v := readVersionFile("VERSION"); v != "" {
		return v
	}
	if v := readVersionFile(filepath.Join("..", "VERSION")); v != "" {
		return v
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}

	return fallbackVersion
}

// readVersionFile returns the trimmed contents of a VERSION file or ""
func readVersionFile(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}
