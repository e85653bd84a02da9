// Package config provides internal configuration loading and processing.
package config

import (
	"github.com/smykla-skalski/liftoff/pkg/config"
)

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *config.Config {
	exitAfterLaunch := true
	allowOffline := false

	return &config.Config{
		Remote: &config.RemoteConfig{
			VersionURL:      config.DefaultVersionURL,
			ArchiveURL:      config.DefaultArchiveURL,
			Format:          config.VersionFormatAuto,
			GitHubRepo:      config.DefaultGitHubRepo,
			Timeout:         config.Duration(config.DefaultFetchTimeout),
			DownloadTimeout: config.Duration(config.DefaultDownloadTimeout),
		},
		Cache: &config.CacheConfig{
			Dir:            config.DefaultCacheDir(),
			ArchiveName:    config.DefaultArchiveName,
			ArchivePattern: config.DefaultArchivePattern,
		},
		Launch: &config.LaunchConfig{
			Executable:      config.DefaultExecutablePattern,
			Command:         config.DefaultLaunchCommand,
			ArgsFile:        config.DefaultArgsFile,
			VersionFile:     config.DefaultVersionFile,
			ExitAfterLaunch: &exitAfterLaunch,
			AllowOffline:    &allowOffline,
		},
		Prerequisite: &config.PrerequisiteConfig{},
		Language: &config.LanguageConfig{
			Default:   config.DefaultLanguage,
			Available: append([]string(nil), config.DefaultLanguages...),
		},
		Log: &config.LogConfig{
			MaxSizeMB:  config.DefaultLogMaxSizeMB,
			MaxBackups: config.DefaultLogMaxBackups,
			MaxAgeDays: config.DefaultLogMaxAgeDays,
		},
		SupportURL: config.DefaultSupportURL,
	}
}

// defaultsToMap converts the defaults to a map for koanf loading. The cache
// dir is left out so that an unset value keeps following os.TempDir.
func defaultsToMap() map[string]any {
	return map[string]any{
		"remote": map[string]any{
			"version_url":      config.DefaultVersionURL,
			"archive_url":      config.DefaultArchiveURL,
			"format":           string(config.VersionFormatAuto),
			"github_repo":      config.DefaultGitHubRepo,
			"timeout":          config.DefaultFetchTimeout.String(),
			"download_timeout": config.DefaultDownloadTimeout.String(),
		},
		"cache": map[string]any{
			"archive_name":    config.DefaultArchiveName,
			"archive_pattern": config.DefaultArchivePattern,
		},
		"launch": map[string]any{
			"executable":        config.DefaultExecutablePattern,
			"command":           config.DefaultLaunchCommand,
			"args_file":         config.DefaultArgsFile,
			"version_file":      config.DefaultVersionFile,
			"exit_after_launch": true,
			"allow_offline":     false,
		},
		"language": map[string]any{
			"default":   config.DefaultLanguage,
			"available": append([]string(nil), config.DefaultLanguages...),
		},
		"log": map[string]any{
			"max_size_mb":  config.DefaultLogMaxSizeMB,
			"max_backups":  config.DefaultLogMaxBackups,
			"max_age_days": config.DefaultLogMaxAgeDays,
		},
		"support_url": config.DefaultSupportURL,
	}
}
