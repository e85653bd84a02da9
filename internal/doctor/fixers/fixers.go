// Package fixers provides fixes for issues found by the doctor checkers.
package fixers

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"

	internalconfig "github.com/smykla-skalski/liftoff/internal/config"
	cachechecker "github.com/smykla-skalski/liftoff/internal/doctor/checkers/cache"
	configchecker "github.com/smykla-skalski/liftoff/internal/doctor/checkers/config"
	pathschecker "github.com/smykla-skalski/liftoff/internal/doctor/checkers/paths"
)

const dirPerm = 0o755

// DirsFixer creates missing directories.
type DirsFixer struct {
	dirs []pathschecker.Dir
}

// NewDirsFixer creates a fixer for dirs.
func NewDirsFixer(dirs ...pathschecker.Dir) *DirsFixer {
	return &DirsFixer{dirs: dirs}
}

// ID returns the fixer identifier.
func (*DirsFixer) ID() string {
	return pathschecker.FixCreateDirs
}

// Description returns a human-readable description.
func (*DirsFixer) Description() string {
	return "Create the missing directories"
}

// Fix creates every directory.
func (f *DirsFixer) Fix(_ context.Context) error {
	for _, d := range f.dirs {
		if err := os.MkdirAll(d.Path, dirPerm); err != nil {
			return errors.Wrapf(err, "creating %s directory", d.Name)
		}
	}

	return nil
}

// PermissionsFixer removes group and world access from a config file.
type PermissionsFixer struct {
	paths []string
}

// NewPermissionsFixer creates a fixer for the config files at paths.
func NewPermissionsFixer(paths ...string) *PermissionsFixer {
	return &PermissionsFixer{paths: paths}
}

// ID returns the fixer identifier.
func (*PermissionsFixer) ID() string {
	return configchecker.FixPermissions
}

// Description returns a human-readable description.
func (*PermissionsFixer) Description() string {
	return "Restrict configuration file permissions to the owner"
}

// Fix chmods each existing file to the config file mode.
func (f *PermissionsFixer) Fix(_ context.Context) error {
	for _, path := range f.paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		if err := os.Chmod(path, internalconfig.ConfigFileMode); err != nil {
			return errors.Wrapf(err, "changing permissions of %s", path)
		}
	}

	return nil
}

// ConfigFixer writes the default configuration to the global config path.
type ConfigFixer struct {
	path string
}

// NewConfigFixer creates a fixer writing to path.
func NewConfigFixer(path string) *ConfigFixer {
	return &ConfigFixer{path: path}
}

// ID returns the fixer identifier.
func (*ConfigFixer) ID() string {
	return configchecker.FixCreateConfig
}

// Description returns a human-readable description.
func (*ConfigFixer) Description() string {
	return "Write the default global configuration"
}

// Fix writes the defaults, leaving an existing file alone.
func (f *ConfigFixer) Fix(_ context.Context) error {
	return internalconfig.NewWriter(false).WriteFile(f.path, internalconfig.DefaultConfig())
}

// Cleaner empties the cache and forgets the installed build.
type Cleaner interface {
	Clean(ctx context.Context) error
}

// CacheFixer resets the cache.
type CacheFixer struct {
	cleaner Cleaner
}

// NewCacheFixer creates a fixer that resets the cache through cleaner.
func NewCacheFixer(cleaner Cleaner) *CacheFixer {
	return &CacheFixer{cleaner: cleaner}
}

// ID returns the fixer identifier.
func (*CacheFixer) ID() string {
	return cachechecker.FixResetCache
}

// Description returns a human-readable description.
func (*CacheFixer) Description() string {
	return "Remove the cached build so the next run downloads it again"
}

// Fix cleans the cache.
func (f *CacheFixer) Fix(ctx context.Context) error {
	return f.cleaner.Clean(ctx)
}
