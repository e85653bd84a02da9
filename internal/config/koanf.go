package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/liftoff/internal/xdg"
	"github.com/smykla-skalski/liftoff/pkg/config"
)

var (
	// ErrConfigNotFound is returned when an explicitly requested config file is missing.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidPermissions is returned when config file has insecure permissions.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")
)

const (
	// EnvPrefix prefixes every environment variable read by the loader.
	EnvPrefix = "LIFTOFF_"

	// envSectionSeparator separates sections in environment variable names:
	// LIFTOFF_REMOTE__TIMEOUT → remote.timeout
	envSectionSeparator = "__"
)

// flagPaths maps CLI flag names to config keys.
var flagPaths = map[string]string{
	"cache-dir":     "cache.dir",
	"version-url":   "remote.version_url",
	"archive-url":   "remote.archive_url",
	"format":        "remote.format",
	"timeout":       "remote.timeout",
	"allow-offline": "launch.allow_offline",
}

// KoanfLoader handles configuration loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (LIFTOFF_*)
// 3. Explicit config file (--config)
// 4. Global Config ($XDG_CONFIG_HOME/liftoff/config.toml)
// 5. Defaults
type KoanfLoader struct {
	k          *koanf.Koanf
	globalPath string
	configFile string
}

// LoaderOption configures a KoanfLoader.
type LoaderOption func(*KoanfLoader)

// WithGlobalConfigPath overrides the global config file location.
func WithGlobalConfigPath(path string) LoaderOption {
	return func(l *KoanfLoader) {
		l.globalPath = path
	}
}

// WithConfigFile adds an explicit config file that must exist.
func WithConfigFile(path string) LoaderOption {
	return func(l *KoanfLoader) {
		l.configFile = path
	}
}

// NewKoanfLoader creates a new KoanfLoader.
func NewKoanfLoader(opts ...LoaderOption) *KoanfLoader {
	l := &KoanfLoader{
		k:          koanf.New("."),
		globalPath: xdg.GlobalConfigFile(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load loads configuration from all sources with precedence and validates it.
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "invalid config"),
			"run 'liftoff config path' to see which files are read",
		)
	}

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
// Defaults → Global TOML → --config TOML → Env Vars → CLI Flags
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := l.loadTOMLFile(l.globalPath); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	if l.configFile != "" {
		if err := l.loadTOMLFile(l.configFile); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(ErrConfigNotFound, "%s", l.configFile)
			}

			return nil, errors.Wrap(err, "failed to load config file")
		}
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if flagConfig := flagsToConfig(flags); len(flagConfig) > 0 {
		if err := l.k.Load(confmap.Provider(flagConfig, "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg config.Config

	if err := l.k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: CustomDecoderConfig(&cfg),
	}); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if cfg.Cache != nil && cfg.Cache.Dir != "" {
		dir, err := xdg.ExpandPath(cfg.Cache.Dir)
		if err != nil {
			return nil, errors.Wrap(err, "cache.dir")
		}

		cfg.Cache.Dir = dir
	}

	return &cfg, nil
}

// GlobalConfigPath returns the path to the global configuration file.
func (l *KoanfLoader) GlobalConfigPath() string {
	return l.globalPath
}

// ConfigFile returns the explicit config file, if any.
func (l *KoanfLoader) ConfigFile() string {
	return l.configFile
}

// HasGlobalConfig checks if a global configuration file exists.
func (l *KoanfLoader) HasGlobalConfig() bool {
	return fileExists(l.globalPath)
}

// loadTOMLFile loads a TOML configuration file with security checks.
func (l *KoanfLoader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	return l.k.Load(file.Provider(path), tomlparser.Parser())
}

// envTransform transforms environment variable names to config paths.
// LIFTOFF_LAUNCH__ALLOW_OFFLINE → launch.allow_offline
func envTransform(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, envSectionSeparator, ".")

	return key, value
}

// flagsToConfig converts CLI flags to a nested configuration map.
func flagsToConfig(flags map[string]any) map[string]any {
	result := make(map[string]any)

	for name, value := range flags {
		path, ok := flagPaths[name]
		if !ok {
			continue
		}

		section, key, _ := strings.Cut(path, ".")
		ensureMapKey(result, section)[key] = value
	}

	return result
}

// ensureMapKey ensures a key exists as a map and returns it.
func ensureMapKey(cfg map[string]any, key string) map[string]any {
	if _, ok := cfg[key]; !ok {
		cfg[key] = make(map[string]any)
	}

	result, _ := cfg[key].(map[string]any)

	return result
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
