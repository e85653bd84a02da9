package config

// Default values for log rotation.
const (
	DefaultLogMaxSizeMB  = 5
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 28
)

// LogConfig contains log file rotation settings.
type LogConfig struct {
	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int `json:"max_size_mb,omitempty" koanf:"max_size_mb" toml:"max_size_mb,omitempty"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `json:"max_backups,omitempty" koanf:"max_backups" toml:"max_backups,omitempty"`

	// MaxAgeDays is the age after which rotated files are removed.
	MaxAgeDays int `json:"max_age_days,omitempty" koanf:"max_age_days" toml:"max_age_days,omitempty"`
}

// GetMaxSizeMB returns the rotation size.
func (l *LogConfig) GetMaxSizeMB() int {
	if l == nil || l.MaxSizeMB <= 0 {
		return DefaultLogMaxSizeMB
	}

	return l.MaxSizeMB
}

// GetMaxBackups returns the number of rotated files kept.
func (l *LogConfig) GetMaxBackups() int {
	if l == nil || l.MaxBackups <= 0 {
		return DefaultLogMaxBackups
	}

	return l.MaxBackups
}

// GetMaxAgeDays returns the retention of rotated files.
func (l *LogConfig) GetMaxAgeDays() int {
	if l == nil || l.MaxAgeDays <= 0 {
		return DefaultLogMaxAgeDays
	}

	return l.MaxAgeDays
}
