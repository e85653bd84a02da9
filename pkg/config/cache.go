package config

import (
	"os"
	"path/filepath"
)

const (
	// DefaultCacheDirName is the cache directory name inside the OS temp dir.
	DefaultCacheDirName = "TrueSkillsApp"

	// DefaultArchiveName is the file name the archive is downloaded to.
	DefaultArchiveName = "Build.zip"

	// DefaultArchivePattern matches pending archives at the top of the cache dir.
	DefaultArchivePattern = "*.zip"
)

// CacheConfig describes the local cache directory.
type CacheConfig struct {
	// Dir is the cache directory.
	// Default: "<os temp dir>/TrueSkillsApp"
	Dir string `json:"dir,omitempty" koanf:"dir" toml:"dir,omitempty"`

	// ArchiveName is the file name used for a downloaded archive.
	// Default: "Build.zip"
	ArchiveName string `json:"archive_name,omitempty" koanf:"archive_name" toml:"archive_name,omitempty"`

	// ArchivePattern is a glob matching pending archives in the cache dir.
	// Default: "*.zip"
	ArchivePattern string `json:"archive_pattern,omitempty" koanf:"archive_pattern" toml:"archive_pattern,omitempty"`
}

// GetDir returns the cache directory.
func (c *CacheConfig) GetDir() string {
	if c == nil || c.Dir == "" {
		return DefaultCacheDir()
	}

	return c.Dir
}

// GetArchiveName returns the archive file name.
func (c *CacheConfig) GetArchiveName() string {
	if c == nil || c.ArchiveName == "" {
		return DefaultArchiveName
	}

	return c.ArchiveName
}

// GetArchivePattern returns the pending archive glob.
func (c *CacheConfig) GetArchivePattern() string {
	if c == nil || c.ArchivePattern == "" {
		return DefaultArchivePattern
	}

	return c.ArchivePattern
}

// DefaultCacheDir returns "<os temp dir>/TrueSkillsApp".
func DefaultCacheDir() string {
	return filepath.Join(os.TempDir(), DefaultCacheDirName)
}
