// Package prereqchecker checks the runtime prerequisite of the application.
package prereqchecker

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/smykla-skalski/liftoff/internal/doctor"
	"github.com/smykla-skalski/liftoff/pkg/config"
)

const checkName = "Runtime prerequisite"

// Checker looks for an installed prerequisite.
type Checker struct {
	cfg *config.PrerequisiteConfig
}

// NewChecker creates a checker for cfg.
func NewChecker(cfg *config.PrerequisiteConfig) *Checker {
	return &Checker{cfg: cfg}
}

// Name returns the name of the check
func (*Checker) Name() string {
	return checkName
}

// Category returns the category of the check
func (*Checker) Category() doctor.Category {
	return doctor.CategoryPrerequisite
}

// Check matches the detect pattern.
func (c *Checker) Check(_ context.Context) doctor.CheckResult {
	if !c.cfg.IsEnabled() {
		return doctor.Skip(checkName, "Not configured")
	}

	if c.cfg.Detect == "" {
		return doctor.Pass(checkName, "No detect pattern, the installer runs before every launch").
			WithDetails("Installer: " + c.cfg.URL)
	}

	if !doublestar.ValidatePattern(c.cfg.Detect) {
		return doctor.FailError(checkName, "Invalid detect pattern").
			WithDetails("Pattern: " + c.cfg.Detect)
	}

	matches, err := doublestar.FilepathGlob(c.cfg.Detect, doublestar.WithFilesOnly())
	if err != nil {
		return doctor.FailError(checkName, "Failed to match detect pattern").
			WithDetails(fmt.Sprintf("Error: %v", err))
	}

	if len(matches) == 0 {
		return doctor.FailWarning(checkName, "Not installed, the installer runs before launch").
			WithDetails(
				"Pattern: "+c.cfg.Detect,
				"Installer: "+c.cfg.URL,
			)
	}

	return doctor.Pass(checkName, "Installed").WithDetails("Found: " + matches[0])
}
