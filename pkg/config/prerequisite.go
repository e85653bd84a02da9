package config

// PrerequisiteConfig describes a runtime installer that must run before the
// payload can start (for example the WebView2 runtime bootstrapper).
//
// The prerequisite is considered installed when Detect matches an existing
// path. When it is not installed, the installer is downloaded next to the
// archive during install and executed (and waited for) before launch.
//
//	[prerequisite]
//	url = "https://go.microsoft.com/fwlink/p/?LinkId=2124703"
//	file = "MicrosoftEdgeWebview2Setup.exe"
//	detect = "C:/Program Files (x86)/Microsoft/EdgeWebView/Application/*/msedgewebview2.exe"
type PrerequisiteConfig struct {
	// URL of the installer. Empty disables the prerequisite.
	URL string `json:"url,omitempty" koanf:"url" toml:"url,omitempty"`

	// File is the installer file name inside the cache dir.
	File string `json:"file,omitempty" koanf:"file" toml:"file,omitempty"`

	// Detect is an absolute glob that matches when the prerequisite is installed.
	Detect string `json:"detect,omitempty" koanf:"detect" toml:"detect,omitempty"`

	// Args are passed to the installer.
	Args []string `json:"args,omitempty" koanf:"args" toml:"args,omitempty"`
}

// IsEnabled reports whether a prerequisite is configured.
func (p *PrerequisiteConfig) IsEnabled() bool {
	return p != nil && p.URL != "" && p.File != ""
}
