// Package configchecker provides checkers for configuration file validation.
package configchecker

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	internalconfig "github.com/smykla-skalski/liftoff/internal/config"
	"github.com/smykla-skalski/liftoff/internal/doctor"
	"github.com/smykla-skalski/liftoff/pkg/config"
)

const checkName = "Config valid"

// Loader loads the effective configuration.
type Loader interface {
	LoadWithoutValidation(flags map[string]any) (*config.Config, error)
	GlobalConfigPath() string
	HasGlobalConfig() bool
}

// Checker checks that the configuration files load and validate.
type Checker struct {
	loader Loader
	flags  map[string]any
}

// NewChecker creates a config checker. flags are the CLI overrides in effect.
func NewChecker(loader Loader, flags map[string]any) *Checker {
	return &Checker{loader: loader, flags: flags}
}

// Name returns the name of the check
func (*Checker) Name() string {
	return checkName
}

// Category returns the category of the check
func (*Checker) Category() doctor.Category {
	return doctor.CategoryConfig
}

// Check loads and validates the configuration.
func (c *Checker) Check(_ context.Context) doctor.CheckResult {
	cfg, err := c.loader.LoadWithoutValidation(c.flags)
	if err != nil {
		switch {
		case errors.Is(err, internalconfig.ErrInvalidPermissions):
			return doctor.FailError(checkName, "Insecure file permissions").
				WithDetails(
					"File: "+c.loader.GlobalConfigPath(),
					"Config file should not be world-writable",
				).
				WithFixID(FixPermissions)
		case errors.Is(err, internalconfig.ErrConfigNotFound):
			return doctor.FailError(checkName, "Config file not found").
				WithDetails(fmt.Sprintf("Error: %v", err))
		default:
			return doctor.FailError(checkName, "Failed to load").
				WithDetails(fmt.Sprintf("Error: %v", err))
		}
	}

	if err := internalconfig.NewValidator().Validate(cfg); err != nil {
		return doctor.FailError(checkName, "Configuration validation failed").
			WithDetails(fmt.Sprintf("Error: %v", err))
	}

	if !c.loader.HasGlobalConfig() {
		return doctor.FailWarning(checkName, "Global config not found, using defaults").
			WithDetails(
				"Expected at: "+c.loader.GlobalConfigPath(),
				"Create with: liftoff config init",
			).
			WithFixID(FixCreateConfig)
	}

	return doctor.Pass(checkName, "Valid")
}

const (
	// FixPermissions is the fix ID for a world-writable config file.
	FixPermissions = "fix_config_permissions"

	// FixCreateConfig is the fix ID for a missing global config.
	FixCreateConfig = "create_global_config"
)
