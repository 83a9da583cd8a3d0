package rules

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/homeledger/internal/category"
	"github.com/jask/homeledger/internal/database/repository"
)

// ValidationError carries the offending field so handlers can surface a
// field-level message.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// Validate checks a rule before persistence. It enforces the enum domains
// and the cross-field constraints: a categorize rule needs either a match
// value or the sign correction, and an ignore rule carries no categorize
// effects.
func Validate(r repository.Rule) error {
	switch r.MatchField {
	case repository.FieldName, repository.FieldMerchantName, repository.FieldAccountType:
	default:
		return invalid("match_field", "must be name, merchant_name or account_type")
	}
	switch r.MatchType {
	case repository.MatchContains, repository.MatchExact:
	default:
		return invalid("match_type", "must be contains or exact")
	}

	switch r.Action {
	case repository.ActionCategorize:
		if strings.TrimSpace(r.MatchValue) == "" && !r.NegateAmount {
			return invalid("match_value", "required unless the rule negates the amount")
		}
		if r.CategoryString != nil && !category.Valid(*r.CategoryString) {
			return invalid("category_string", "must be \"Group\" or \"Group > Subcategory\"")
		}
	case repository.ActionIgnore:
		if r.CategoryString != nil && *r.CategoryString != "" {
			return invalid("category_string", "not allowed on an ignore rule")
		}
		if r.NegateAmount {
			return invalid("negate_amount", "not allowed on an ignore rule")
		}
		if strings.TrimSpace(r.MatchValue) == "" {
			return invalid("match_value", "required for an ignore rule")
		}
	default:
		return invalid("action", "must be categorize or ignore")
	}
	return nil
}

// AutoName derives a display name for rules created without one.
func AutoName(r repository.Rule) string {
	verb := "Categorize"
	if r.Action == repository.ActionIgnore {
		verb = "Ignore"
	}
	if strings.TrimSpace(r.MatchValue) == "" {
		return fmt.Sprintf("%s %s rules", verb, r.MatchField)
	}
	return fmt.Sprintf("%s %s %s %q", verb, r.MatchField, r.MatchType, r.MatchValue)
}

// similarDistance is the maximum edit distance at which two match values are
// flagged as near-duplicates.
const similarDistance = 2

// SimilarRule returns an existing rule whose predicate is suspiciously close
// to r (same field and action, match value within a small edit distance), or
// nil. Used to warn on likely duplicate rules; never an error.
func SimilarRule(existing []repository.Rule, r repository.Rule) *repository.Rule {
	val := strings.ToLower(strings.TrimSpace(r.MatchValue))
	if val == "" {
		return nil
	}
	for _, e := range existing {
		if e.ID == r.ID || e.MatchField != r.MatchField || e.Action != r.Action {
			continue
		}
		other := strings.ToLower(strings.TrimSpace(e.MatchValue))
		if other == "" {
			continue
		}
		if levenshtein.ComputeDistance(val, other) <= similarDistance {
			match := e
			return &match
		}
	}
	return nil
}
