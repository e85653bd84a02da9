package config

import "time"

// Default values for remote configuration.
const (
	// DefaultVersionURL points to the plain-text version marker of the build.
	DefaultVersionURL = "https://raw.githubusercontent.com/VictorGaan/Build/master/Version.txt"

	// DefaultArchiveURL points to the zip archive of the build.
	DefaultArchiveURL = "https://codeload.github.com/VictorGaan/Build/zip/refs/heads/master"

	// DefaultGitHubRepo is the repository queried by the github version format.
	DefaultGitHubRepo = "VictorGaan/Build"

	// DefaultFetchTimeout bounds the remote version fetch.
	DefaultFetchTimeout = 2 * time.Second

	// DefaultDownloadTimeout bounds a whole archive download.
	DefaultDownloadTimeout = 30 * time.Minute

	// MaxFetchTimeout is the largest accepted version fetch timeout.
	MaxFetchTimeout = 30 * time.Second
)

// VersionFormat selects how the remote version marker is interpreted.
type VersionFormat string

const (
	// VersionFormatAuto detects JSON bodies and falls back to plain text.
	VersionFormatAuto VersionFormat = "auto"

	// VersionFormatText treats the first non-empty line as the version.
	VersionFormatText VersionFormat = "text"

	// VersionFormatJSON reads the "version" (or "status") field of a JSON object.
	VersionFormatJSON VersionFormat = "json"

	// VersionFormatGitHub uses the tag of the latest GitHub release.
	VersionFormatGitHub VersionFormat = "github"
)

// VersionFormats lists every accepted version format.
var VersionFormats = []VersionFormat{
	VersionFormatAuto,
	VersionFormatText,
	VersionFormatJSON,
	VersionFormatGitHub,
}

// RemoteConfig describes the remote version marker and build archive.
//
// Example configuration:
//
//	[remote]
//	version_url = "https://example.com/Version.txt"
//	archive_url = "https://example.com/Build.zip"
//	format = "auto"
//	timeout = "2s"
type RemoteConfig struct {
	// VersionURL is fetched to learn the latest available version.
	VersionURL string `json:"version_url,omitempty" koanf:"version_url" toml:"version_url,omitempty"`

	// ArchiveURL is downloaded during install.
	ArchiveURL string `json:"archive_url,omitempty" koanf:"archive_url" toml:"archive_url,omitempty"`

	// Format selects how the version marker is parsed.
	// Default: "auto"
	Format VersionFormat `json:"format,omitempty" koanf:"format" toml:"format,omitempty" jsonschema:"enum=auto,enum=text,enum=json,enum=github"`

	// GitHubRepo is "owner/name" for the github format.
	GitHubRepo string `json:"github_repo,omitempty" koanf:"github_repo" toml:"github_repo,omitempty"`

	// Timeout bounds the version fetch.
	// Default: "2s"
	Timeout Duration `json:"timeout,omitempty" koanf:"timeout" toml:"timeout,omitempty"`

	// DownloadTimeout bounds the archive download.
	// Default: "30m"
	DownloadTimeout Duration `json:"download_timeout,omitempty" koanf:"download_timeout" toml:"download_timeout,omitempty"`
}

// GetVersionURL returns the version marker URL.
func (r *RemoteConfig) GetVersionURL() string {
	if r == nil || r.VersionURL == "" {
		return DefaultVersionURL
	}

	return r.VersionURL
}

// GetArchiveURL returns the archive URL.
func (r *RemoteConfig) GetArchiveURL() string {
	if r == nil || r.ArchiveURL == "" {
		return DefaultArchiveURL
	}

	return r.ArchiveURL
}

// GetFormat returns the version format.
func (r *RemoteConfig) GetFormat() VersionFormat {
	if r == nil || r.Format == "" {
		return VersionFormatAuto
	}

	return r.Format
}

// GetGitHubRepo returns the "owner/name" pair used by the github format.
func (r *RemoteConfig) GetGitHubRepo() string {
	if r == nil || r.GitHubRepo == "" {
		return DefaultGitHubRepo
	}

	return r.GitHubRepo
}

// GetTimeout returns the version fetch timeout.
func (r *RemoteConfig) GetTimeout() time.Duration {
	if r == nil || r.Timeout == 0 {
		return DefaultFetchTimeout
	}

	return r.Timeout.ToDuration()
}

// GetDownloadTimeout returns the archive download timeout.
func (r *RemoteConfig) GetDownloadTimeout() time.Duration {
	if r == nil || r.DownloadTimeout == 0 {
		return DefaultDownloadTimeout
	}

	return r.DownloadTimeout.ToDuration()
}
