// Package paths resolves configuration directory and project file
// locations for the CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative defaults.
const (
	DefaultConfigDirName = ".brat"
	DefaultProjectName   = "project.gpkg"
)

// Environment variable names for overrides.
const (
	EnvConfigDir = "BRAT_CONFIG_DIR"
	EnvProject   = "BRAT_PROJECT"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration
// directory.
//
// Linux:   $XDG_CONFIG_HOME/brat (fallback ~/.config/brat)
// macOS:   ~/Library/Application Support/brat
// Windows: %APPDATA%/brat
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "brat"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "brat"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "brat"), nil
	}
}

// ResolveConfigDir picks the configuration directory: explicit flag value,
// then environment override, then the CWD-relative default.
func ResolveConfigDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(EnvConfigDir); v != "" {
		return v
	}
	return DefaultConfigDirName
}

// ResolveProject picks the project database path: explicit flag value,
// then environment override, then the configured default, then the
// CWD-relative default.
func ResolveProject(flagValue, configured string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(EnvProject); v != "" {
		return v
	}
	if configured != "" {
		return configured
	}
	return DefaultProjectName
}
