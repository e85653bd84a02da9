package doctor

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry holds health checkers in registration order and fixers by ID.
type Registry struct {
	mu       sync.RWMutex
	checkers []HealthChecker
	fixers   map[string]Fixer
}

// NewRegistry creates a new Registry
func NewRegistry() *Registry {
	return &Registry{fixers: make(map[string]Fixer)}
}

// RegisterChecker registers a health checker
func (r *Registry) RegisterChecker(checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkers = append(r.checkers, checker)
}

// RegisterFixer registers a fixer, replacing one with the same ID.
func (r *Registry) RegisterFixer(fixer Fixer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fixers[fixer.ID()] = fixer
}

// Checkers returns all registered checkers.
func (r *Registry) Checkers() []HealthChecker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.checkers)
}

// CheckersForCategories returns the checkers in the given categories, or
// all of them when categories is empty.
func (r *Registry) CheckersForCategories(categories []Category) []HealthChecker {
	all := r.Checkers()
	if len(categories) == 0 {
		return all
	}

	return slices.DeleteFunc(all, func(c HealthChecker) bool {
		return !slices.Contains(categories, c.Category())
	})
}

// Run executes the checkers of the given categories concurrently. Results
// keep the registration order.
func (r *Registry) Run(ctx context.Context, categories []Category) []CheckResult {
	checkers := r.CheckersForCategories(categories)
	results := make([]CheckResult, len(checkers))

	var g errgroup.Group

	for i, checker := range checkers {
		g.Go(func() error {
			result := checker.Check(ctx)
			result.Category = checker.Category()
			results[i] = result

			return nil
		})
	}

	_ = g.Wait()

	return results
}

// Fixer retrieves a fixer by ID.
//
//nolint:ireturn // Fixer interface for polymorphism
func (r *Registry) Fixer(fixID string) (Fixer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fixer, ok := r.fixers[fixID]

	return fixer, ok
}

// FixerCount returns the total number of registered fixers
func (r *Registry) FixerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.fixers)
}
