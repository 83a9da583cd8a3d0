package rules

import (
	"sort"

	"github.com/jask/homeledger/internal/database/repository"
)

// Resolve picks the winning rule for a transaction: active rules only,
// higher priority first, ties broken by creation order, first match wins.
// Returns nil when nothing matches. Both bulk application and preview go
// through this function so precedence can never diverge between them.
func Resolve(t repository.Transaction, accountType string, ruleset []repository.Rule) *repository.Rule {
	for _, rule := range Order(ruleset) {
		if !rule.IsActive {
			continue
		}
		if Matches(rule, t, accountType) {
			r := rule
			return &r
		}
	}
	return nil
}

// Order returns the ruleset sorted into precedence order: priority
// descending, equal priorities keeping their relative (creation) order. The
// input slice is not modified.
func Order(ruleset []repository.Rule) []repository.Rule {
	out := append([]repository.Rule(nil), ruleset...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}
