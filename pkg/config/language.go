package config

// DefaultLanguage is the UI language used until the user picks one.
const DefaultLanguage = "ru-RU"

// DefaultLanguages lists the languages offered by the language picker.
var DefaultLanguages = []string{"ru-RU", "en-US"}

// LanguageConfig contains UI language settings.
type LanguageConfig struct {
	// Default is used when no language was selected yet.
	// Default: "ru-RU"
	Default string `json:"default,omitempty" koanf:"default" toml:"default,omitempty"`

	// Available lists the languages offered by the picker.
	// Default: ["ru-RU", "en-US"]
	Available []string `json:"available,omitempty" koanf:"available" toml:"available,omitempty"`
}

// GetDefault returns the default language tag.
func (l *LanguageConfig) GetDefault() string {
	if l == nil || l.Default == "" {
		return DefaultLanguage
	}

	return l.Default
}

// GetAvailable returns the languages offered by the picker.
func (l *LanguageConfig) GetAvailable() []string {
	if l == nil || len(l.Available) == 0 {
		return DefaultLanguages
	}

	return l.Available
}
