// Package reporters provides output formatting for doctor check results
package reporters

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/smykla-skalski/liftoff/internal/color"
	"github.com/smykla-skalski/liftoff/internal/doctor"
)

// categoryNames maps categories to display names
var categoryNames = map[doctor.Category]string{
	doctor.CategoryConfig:       "Configuration",
	doctor.CategoryPaths:        "Directories",
	doctor.CategoryCache:        "Cached build",
	doctor.CategoryRemote:       "Published version",
	doctor.CategoryPrerequisite: "Prerequisite",
}

// SimpleReporter prints a checklist grouped by category.
type SimpleReporter struct {
	theme color.Theme
}

// NewSimpleReporter creates a new SimpleReporter
func NewSimpleReporter(theme color.Theme) *SimpleReporter {
	return &SimpleReporter{theme: theme}
}

// Report outputs the results in a simple checklist format
func (r *SimpleReporter) Report(w io.Writer, results []doctor.CheckResult, verbose bool) {
	fmt.Fprintln(w, r.theme.Header.Render("Checking liftoff health..."))
	fmt.Fprintln(w)

	grouped := groupByCategory(results)

	for _, category := range orderedCategories(grouped) {
		fmt.Fprintf(w, "%s:\n", getCategoryName(category))

		for _, result := range grouped[category] {
			r.printResult(w, result, verbose)
		}

		fmt.Fprintln(w)
	}

	errs, warnings, passed := doctor.Count(results)

	fmt.Fprintf(w, "Summary: %d error(s), %d warning(s), %d passed\n", errs, warnings, passed)
}

func groupByCategory(results []doctor.CheckResult) map[doctor.Category][]doctor.CheckResult {
	grouped := make(map[doctor.Category][]doctor.CheckResult)

	for _, result := range results {
		grouped[result.Category] = append(grouped[result.Category], result)
	}

	return grouped
}

// orderedCategories returns the known categories first, then unknown ones sorted.
func orderedCategories(grouped map[doctor.Category][]doctor.CheckResult) []doctor.Category {
	var ordered, extra []doctor.Category

	for _, c := range doctor.Categories {
		if len(grouped[c]) > 0 {
			ordered = append(ordered, c)
		}
	}

	for c := range grouped {
		if !slices.Contains(doctor.Categories, c) {
			extra = append(extra, c)
		}
	}

	slices.Sort(extra)

	return append(ordered, extra...)
}

func getCategoryName(category doctor.Category) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}

	s := string(category)
	if s == "" {
		return "Other"
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

func (r *SimpleReporter) printResult(w io.Writer, result doctor.CheckResult, verbose bool) {
	fmt.Fprintf(w, "  %s %s", r.icon(result), result.Name)

	if result.Message != "" {
		fmt.Fprintf(w, " - %s", result.Message)
	}

	fmt.Fprintln(w)

	if verbose {
		for _, detail := range result.Details {
			fmt.Fprintf(w, "     %s\n", r.theme.Muted.Render(detail))
		}
	}

	if result.HasFix() && result.Status == doctor.StatusFail {
		fmt.Fprintln(w, "     → Run: liftoff doctor --fix")
	}
}

func (r *SimpleReporter) icon(result doctor.CheckResult) string {
	switch {
	case result.IsPassed():
		return r.theme.Ready.Render("✓")
	case result.IsError():
		return r.theme.Failed.Render("✗")
	case result.IsWarning():
		return r.theme.Warning.Render("!")
	case result.IsSkipped():
		return r.theme.Muted.Render("⊘")
	default:
		return "?"
	}
}
