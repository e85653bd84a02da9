package config

const (
	// DefaultExecutablePattern locates the payload executable inside the cache dir.
	DefaultExecutablePattern = "*/TrueSkills.exe"

	// DefaultLaunchCommand starts the executable with the UI language.
	DefaultLaunchCommand = `"$EXECUTABLE" "$LANGUAGE"`

	// DefaultArgsFile is written into the payload dir before launch.
	DefaultArgsFile = "Args.txt"

	// DefaultVersionFile is written into the payload dir after install.
	DefaultVersionFile = "Version.txt"
)

// LaunchConfig describes how the payload is started.
//
// The command is split into words with shell quoting rules. The variables
// $EXECUTABLE, $PAYLOAD_DIR, $LANGUAGE, $LAUNCHER_DIR and $CACHE_DIR are
// expanded. A runtime host can be used instead of a native executable:
//
//	[launch]
//	executable = "*/TrueSkills.dll"
//	command = 'dotnet "$EXECUTABLE" "$LANGUAGE"'
type LaunchConfig struct {
	// Executable is a glob, relative to the cache dir, matching the payload entry point.
	// Default: "*/TrueSkills.exe"
	Executable string `json:"executable,omitempty" koanf:"executable" toml:"executable,omitempty"`

	// Command is the command line used to start the payload.
	// Default: "\"$EXECUTABLE\" \"$LANGUAGE\""
	Command string `json:"command,omitempty" koanf:"command" toml:"command,omitempty"`

	// ArgsFile is written into the payload dir as "<language>&<launcher dir>".
	// Set to "-" to disable.
	// Default: "Args.txt"
	ArgsFile string `json:"args_file,omitempty" koanf:"args_file" toml:"args_file,omitempty"`

	// VersionFile receives the installed version after extraction.
	// Set to "-" to disable.
	// Default: "Version.txt"
	VersionFile string `json:"version_file,omitempty" koanf:"version_file" toml:"version_file,omitempty"`

	// ExitAfterLaunch makes the launcher exit once the payload started.
	// Default: true
	ExitAfterLaunch *bool `json:"exit_after_launch,omitempty" koanf:"exit_after_launch" toml:"exit_after_launch,omitempty"`

	// AllowOffline reports Ready for an installed payload when the remote
	// version cannot be fetched.
	// Default: false
	AllowOffline *bool `json:"allow_offline,omitempty" koanf:"allow_offline" toml:"allow_offline,omitempty"`
}

// GetExecutable returns the executable glob.
func (l *LaunchConfig) GetExecutable() string {
	if l == nil || l.Executable == "" {
		return DefaultExecutablePattern
	}

	return l.Executable
}

// GetCommand returns the launch command template.
func (l *LaunchConfig) GetCommand() string {
	if l == nil || l.Command == "" {
		return DefaultLaunchCommand
	}

	return l.Command
}

// GetArgsFile returns the args file name, or "" when disabled.
func (l *LaunchConfig) GetArgsFile() string {
	return optionalName(l, func(c *LaunchConfig) string { return c.ArgsFile }, DefaultArgsFile)
}

// GetVersionFile returns the version file name, or "" when disabled.
func (l *LaunchConfig) GetVersionFile() string {
	return optionalName(l, func(c *LaunchConfig) string { return c.VersionFile }, DefaultVersionFile)
}

// IsExitAfterLaunch reports whether the launcher exits after starting the payload.
func (l *LaunchConfig) IsExitAfterLaunch() bool {
	if l == nil || l.ExitAfterLaunch == nil {
		return true
	}

	return *l.ExitAfterLaunch
}

// IsAllowOffline reports whether an installed payload may launch without a version check.
func (l *LaunchConfig) IsAllowOffline() bool {
	if l == nil || l.AllowOffline == nil {
		return false
	}

	return *l.AllowOffline
}

func optionalName(l *LaunchConfig, get func(*LaunchConfig) string, def string) string {
	if l == nil {
		return def
	}

	switch v := get(l); v {
	case "":
		return def
	case "-":
		return ""
	default:
		return v
	}
}
