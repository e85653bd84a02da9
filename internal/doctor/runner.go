package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/liftoff/internal/prompt"
	"github.com/smykla-skalski/liftoff/pkg/logger"
)

// ErrChecksFailed is returned when at least one check ends with an error.
var ErrChecksFailed = errors.New("health checks failed")

// Runner orchestrates health checks and fixes
type Runner struct {
	registry *Registry
	reporter Reporter
	prompter prompt.Prompter
	logger   logger.Logger
	out      io.Writer
}

// RunOptions configures the doctor run behavior
type RunOptions struct {
	// Verbose enables detailed output
	Verbose bool

	// AutoFix applies fixes without prompting (--fix flag)
	AutoFix bool

	// Interactive asks before each fix
	Interactive bool

	// Categories filters checks by category
	Categories []Category
}

// NewRunner creates a new Runner
func NewRunner(
	registry *Registry,
	reporter Reporter,
	prompter prompt.Prompter,
	log logger.Logger,
	out io.Writer,
) *Runner {
	return &Runner{
		registry: registry,
		reporter: reporter,
		prompter: prompter,
		logger:   log,
		out:      out,
	}
}

// Run executes health checks and applies fixes if requested.
func (r *Runner) Run(ctx context.Context, opts RunOptions) error {
	r.logger.Info("starting doctor run", "verbose", opts.Verbose, "autoFix", opts.AutoFix)

	results := r.registry.Run(ctx, opts.Categories)

	r.logger.Info("checks completed", "total", len(results))
	r.reporter.Report(r.out, results, opts.Verbose)

	fixable := collectFixable(results)
	if len(fixable) == 0 {
		return r.exitError(results)
	}

	if !opts.AutoFix && !opts.Interactive {
		r.suggestFixes(fixable)

		return r.exitError(results)
	}

	applied, err := r.applyFixes(ctx, fixable, opts.Interactive && !opts.AutoFix)
	if err != nil {
		return errors.Wrap(err, "failed to apply fixes")
	}

	if applied == 0 {
		return r.exitError(results)
	}

	r.logger.Info("re-running checks after fixes", "applied", applied)
	fmt.Fprintln(r.out)

	rerun := r.registry.Run(ctx, opts.Categories)
	r.reporter.Report(r.out, rerun, opts.Verbose)

	return r.exitError(rerun)
}

// collectFixable returns failed results that have a fix available.
func collectFixable(results []CheckResult) []CheckResult {
	var fixable []CheckResult

	for _, result := range results {
		if result.Status == StatusFail && result.HasFix() {
			fixable = append(fixable, result)
		}
	}

	return fixable
}

func (r *Runner) applyFixes(ctx context.Context, results []CheckResult, ask bool) (int, error) {
	applied := 0
	seen := make(map[string]bool)

	for _, result := range results {
		if seen[result.FixID] {
			continue
		}

		seen[result.FixID] = true

		fixer, ok := r.registry.Fixer(result.FixID)
		if !ok {
			r.logger.Error("fixer not found", "fixID", result.FixID)
			continue
		}

		if ask {
			confirmed, err := r.prompter.Confirm(fmt.Sprintf("%s?", fixer.Description()), true)
			if err != nil {
				return applied, errors.Wrap(err, "failed to get user confirmation")
			}

			if !confirmed {
				r.logger.Info("fix skipped by user", "check", result.Name)
				continue
			}
		}

		r.logger.Info("applying fix", "check", result.Name, "fixer", fixer.ID())

		if err := fixer.Fix(ctx); err != nil {
			return applied, errors.Wrapf(err, "failed to fix %q", result.Name)
		}

		fmt.Fprintf(r.out, "Fixed: %s\n", fixer.Description())

		applied++
	}

	return applied, nil
}

func (r *Runner) suggestFixes(results []CheckResult) {
	fmt.Fprintln(r.out, "\nSuggested fixes:")

	seen := make(map[string]bool)

	for _, result := range results {
		fixer, ok := r.registry.Fixer(result.FixID)
		if !ok || seen[fixer.ID()] {
			continue
		}

		seen[fixer.ID()] = true

		fmt.Fprintf(r.out, "  - %s: %s\n", result.Name, fixer.Description())
	}

	fmt.Fprintln(r.out, "\nRun 'liftoff doctor --fix' to apply fixes automatically")
}

func (r *Runner) exitError(results []CheckResult) error {
	errorCount, warningCount, _ := Count(results)

	r.logger.Info("final status",
		"errors", errorCount,
		"warnings", warningCount,
		"total", len(results),
	)

	if errorCount > 0 {
		return errors.Wrapf(ErrChecksFailed, "%d error(s)", errorCount)
	}

	return nil
}

// Count counts errors, warnings and passed checks.
func Count(results []CheckResult) (errs, warnings, passed int) {
	for _, result := range results {
		switch {
		case result.IsPassed():
			passed++
		case result.IsError():
			errs++
		case result.IsWarning():
			warnings++
		}
	}

	return errs, warnings, passed
}
