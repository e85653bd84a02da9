// Package xdg provides centralized path management following XDG Base Directory conventions.
// All user-level paths liftoff touches outside the cache directory are defined here.
package xdg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	appName = "liftoff"

	// LogFileEnv overrides the log file location.
	LogFileEnv = "LIFTOFF_LOG_FILE"

	dirMode = 0o700
)

func userHome() (string, error) {
	return os.UserHomeDir()
}

func baseDir(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}

	home, err := userHome()
	if err != nil {
		home = "~"
	}

	return filepath.Join(append([]string{home}, fallback...)...)
}

// ConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func ConfigHome() string {
	return baseDir("XDG_CONFIG_HOME", ".config")
}

// StateHome returns $XDG_STATE_HOME or ~/.local/state.
func StateHome() string {
	return baseDir("XDG_STATE_HOME", ".local", "state")
}

// ConfigDir returns ConfigHome()/liftoff.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), appName)
}

// StateDir returns StateHome()/liftoff.
func StateDir() string {
	return filepath.Join(StateHome(), appName)
}

// GlobalConfigFile returns ConfigDir()/config.toml.
func GlobalConfigFile() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// SettingsFile returns StateDir()/settings.toml.
func SettingsFile() string {
	return filepath.Join(StateDir(), "settings.toml")
}

// InstallStateFile returns StateDir()/install.json.
func InstallStateFile() string {
	return filepath.Join(StateDir(), "install.json")
}

// CrashDumpDir returns StateDir()/crashes.
func CrashDumpDir() string {
	return filepath.Join(StateDir(), "crashes")
}

// LogFile returns the log file path.
// Respects LIFTOFF_LOG_FILE, otherwise StateDir()/liftoff.log.
func LogFile() string {
	if v := os.Getenv(LogFileEnv); v != "" {
		return v
	}

	return filepath.Join(StateDir(), "liftoff.log")
}

// ExpandPath resolves ~ prefix to the user's home directory.
// Returns error for invalid tilde usage like "~foo".
func ExpandPath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := userHome()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	switch {
	case path == "~":
		return home, nil
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:]), nil
	default:
		return "", errors.Newf("paths starting with ~ must be either ~ or ~/subdir, got %q", path)
	}
}

// EnsureDir creates a directory with 0700 permissions if it doesn't exist,
// tightening permissions on an existing one.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, dirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to stat directory %s", path)
	}

	if info.Mode().Perm() != dirMode {
		if err := os.Chmod(path, dirMode); err != nil {
			return errors.Wrapf(err, "failed to set permissions on %s", path)
		}
	}

	return nil
}
