package config

import (
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"golang.org/x/text/language"
	"mvdan.cc/sh/v3/shell"

	"github.com/smykla-skalski/liftoff/pkg/config"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyValue is returned when a required value is empty.
	ErrEmptyValue = errors.New("empty value not allowed")

	// ErrInvalidOption is returned when an option value is invalid.
	ErrInvalidOption = errors.New("invalid option value")

	// ErrOutOfRange is returned when a numeric value is outside its bounds.
	ErrOutOfRange = errors.New("value out of range")
)

// Validator validates configuration semantics.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the entire configuration.
// Returns an error describing all validation failures.
func (v *Validator) Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	var validationErrors []error

	collect := func(section string, err error) {
		if err != nil {
			validationErrors = append(validationErrors, errors.Wrap(err, section))
		}
	}

	collect("remote", v.validateRemote(cfg.GetRemote()))
	collect("cache", v.validateCache(cfg.GetCache()))
	collect("launch", v.validateLaunch(cfg.GetLaunch()))
	collect("prerequisite", v.validatePrerequisite(cfg.GetPrerequisite()))
	collect("language", v.validateLanguage(cfg.GetLanguage()))
	collect("log", v.validateLog(cfg.GetLog()))

	if cfg.SupportURL != "" {
		collect("support_url", validateHTTPURL(cfg.SupportURL))
	}

	if len(validationErrors) > 0 {
		return errors.WithSecondaryError(
			errors.Wrapf(
				ErrInvalidConfig,
				"validation failed with %d error(s)",
				len(validationErrors),
			),
			combineErrors(validationErrors),
		)
	}

	return nil
}

func (*Validator) validateRemote(cfg *config.RemoteConfig) error {
	var errs []error

	format := cfg.GetFormat()
	if !slices.Contains(config.VersionFormats, format) {
		errs = append(errs, errors.Wrapf(ErrInvalidOption, "format %q", format))
	}

	if format == config.VersionFormatGitHub {
		owner, repo, ok := strings.Cut(cfg.GetGitHubRepo(), "/")
		if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
			errs = append(errs, errors.Wrapf(
				ErrInvalidOption, "github_repo %q must be owner/repo", cfg.GetGitHubRepo(),
			))
		}
	} else if err := validateHTTPURL(cfg.GetVersionURL()); err != nil {
		errs = append(errs, errors.Wrap(err, "version_url"))
	}

	if err := validateHTTPURL(cfg.GetArchiveURL()); err != nil {
		errs = append(errs, errors.Wrap(err, "archive_url"))
	}

	if t := cfg.GetTimeout(); t <= 0 || t > config.MaxFetchTimeout {
		errs = append(errs, errors.Wrapf(
			ErrOutOfRange, "timeout %s must be in (0, %s]", t, config.MaxFetchTimeout,
		))
	}

	return combineErrors(errs)
}

func (*Validator) validateCache(cfg *config.CacheConfig) error {
	var errs []error

	if name := cfg.GetArchiveName(); name != filepath.Base(name) {
		errs = append(errs, errors.Wrapf(ErrInvalidOption, "archive_name %q must be a file name", name))
	}

	pattern := cfg.GetArchivePattern()
	if !doublestar.ValidatePattern(pattern) {
		errs = append(errs, errors.Wrapf(ErrInvalidOption, "archive_pattern %q", pattern))
	} else if ok, _ := doublestar.Match(pattern, cfg.GetArchiveName()); !ok {
		errs = append(errs, errors.Wrapf(
			ErrInvalidOption,
			"archive_name %q does not match archive_pattern %q",
			cfg.GetArchiveName(), pattern,
		))
	}

	return combineErrors(errs)
}

func (*Validator) validateLaunch(cfg *config.LaunchConfig) error {
	var errs []error

	if !doublestar.ValidatePattern(cfg.GetExecutable()) {
		errs = append(errs, errors.Wrapf(ErrInvalidOption, "executable %q", cfg.GetExecutable()))
	}

	words, err := shell.Fields(cfg.GetCommand(), func(string) string { return "x" })

	switch {
	case err != nil:
		errs = append(errs, errors.Wrap(err, "command"))
	case len(words) == 0:
		errs = append(errs, errors.Wrap(ErrEmptyValue, "command"))
	}

	for key, name := range map[string]string{
		"args_file":    cfg.GetArgsFile(),
		"version_file": cfg.GetVersionFile(),
	} {
		if name != "" && name != filepath.Base(name) {
			errs = append(errs, errors.Wrapf(ErrInvalidOption, "%s %q must be a file name", key, name))
		}
	}

	return combineErrors(errs)
}

func (*Validator) validatePrerequisite(cfg *config.PrerequisiteConfig) error {
	if cfg.URL == "" && cfg.File == "" {
		return nil
	}

	var errs []error

	if cfg.URL == "" || cfg.File == "" {
		errs = append(errs, errors.Wrap(ErrEmptyValue, "url and file must be set together"))
	}

	if cfg.URL != "" {
		if err := validateHTTPURL(cfg.URL); err != nil {
			errs = append(errs, errors.Wrap(err, "url"))
		}
	}

	if cfg.File != "" && cfg.File != filepath.Base(cfg.File) {
		errs = append(errs, errors.Wrapf(ErrInvalidOption, "file %q must be a file name", cfg.File))
	}

	if cfg.Detect != "" && !doublestar.ValidatePattern(filepath.ToSlash(cfg.Detect)) {
		errs = append(errs, errors.Wrapf(ErrInvalidOption, "detect %q", cfg.Detect))
	}

	return combineErrors(errs)
}

func (*Validator) validateLanguage(cfg *config.LanguageConfig) error {
	var errs []error

	available := cfg.GetAvailable()

	for _, tag := range available {
		if _, err := language.Parse(tag); err != nil {
			errs = append(errs, errors.Wrapf(ErrInvalidOption, "available language %q", tag))
		}
	}

	if !slices.Contains(available, cfg.GetDefault()) {
		errs = append(errs, errors.Wrapf(
			ErrInvalidOption, "default %q is not in available %v", cfg.GetDefault(), available,
		))
	}

	return combineErrors(errs)
}

func (*Validator) validateLog(cfg *config.LogConfig) error {
	if cfg.MaxSizeMB < 0 || cfg.MaxBackups < 0 || cfg.MaxAgeDays < 0 {
		return errors.Wrap(ErrOutOfRange, "rotation limits must be non-negative")
	}

	return nil
}

func validateHTTPURL(raw string) error {
	if raw == "" {
		return ErrEmptyValue
	}

	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(ErrInvalidOption, "%q: %v", raw, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Wrapf(ErrInvalidOption, "%q must be an http(s) URL", raw)
	}

	return nil
}

// combineErrors combines multiple errors into one.
func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}
