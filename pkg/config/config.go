// Package config provides configuration schema types for liftoff.
package config

// DefaultSupportURL is the support site opened by "liftoff support".
const DefaultSupportURL = "https://help.trueskills.ru"

// Config represents the root configuration for liftoff.
type Config struct {
	// Remote describes where the version marker and the build archive live.
	Remote *RemoteConfig `json:"remote,omitempty" koanf:"remote" toml:"remote,omitempty"`

	// Cache describes the local cache directory holding the build.
	Cache *CacheConfig `json:"cache,omitempty" koanf:"cache" toml:"cache,omitempty"`

	// Launch describes how the extracted payload is started.
	Launch *LaunchConfig `json:"launch,omitempty" koanf:"launch" toml:"launch,omitempty"`

	// Prerequisite describes an optional runtime installer run before launch.
	Prerequisite *PrerequisiteConfig `json:"prerequisite,omitempty" koanf:"prerequisite" toml:"prerequisite,omitempty"`

	// Language contains UI language settings passed to the payload.
	Language *LanguageConfig `json:"language,omitempty" koanf:"language" toml:"language,omitempty"`

	// Log contains log file rotation settings.
	Log *LogConfig `json:"log,omitempty" koanf:"log" toml:"log,omitempty"`

	// SupportURL is opened by the support command.
	// Default: "https://help.trueskills.ru"
	SupportURL string `json:"support_url,omitempty" koanf:"support_url" toml:"support_url,omitempty"`
}

// GetRemote returns the remote config, never nil.
func (c *Config) GetRemote() *RemoteConfig {
	if c == nil || c.Remote == nil {
		return &RemoteConfig{}
	}

	return c.Remote
}

// GetCache returns the cache config, never nil.
func (c *Config) GetCache() *CacheConfig {
	if c == nil || c.Cache == nil {
		return &CacheConfig{}
	}

	return c.Cache
}

// GetLaunch returns the launch config, never nil.
func (c *Config) GetLaunch() *LaunchConfig {
	if c == nil || c.Launch == nil {
		return &LaunchConfig{}
	}

	return c.Launch
}

// GetPrerequisite returns the prerequisite config, never nil.
func (c *Config) GetPrerequisite() *PrerequisiteConfig {
	if c == nil || c.Prerequisite == nil {
		return &PrerequisiteConfig{}
	}

	return c.Prerequisite
}

// GetLanguage returns the language config, never nil.
func (c *Config) GetLanguage() *LanguageConfig {
	if c == nil || c.Language == nil {
		return &LanguageConfig{}
	}

	return c.Language
}

// GetLog returns the log config, never nil.
func (c *Config) GetLog() *LogConfig {
	if c == nil || c.Log == nil {
		return &LogConfig{}
	}

	return c.Log
}

// GetSupportURL returns the support site URL.
func (c *Config) GetSupportURL() string {
	if c == nil || c.SupportURL == "" {
		return DefaultSupportURL
	}

	return c.SupportURL
}
