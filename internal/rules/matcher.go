// Package rules implements the matching, precedence, and validation logic of
// the user rule engine. Everything here is pure; persistence and batch
// application live in the repository and service packages.
package rules

import (
	"strings"

	"github.com/jask/homeledger/internal/database/repository"
)

// Matches reports whether rule matches the transaction. accountType is the
// type of the owning account, resolved by the caller since it is not stored
// on the transaction row. An absent field value never matches a non-empty
// match value; it never raises.
func Matches(rule repository.Rule, t repository.Transaction, accountType string) bool {
	val := strings.ToLower(rule.MatchValue)

	// An empty match value carries no content constraint. Validation only
	// admits it for rules whose sole effect is the amount-sign correction.
	if val == "" {
		return true
	}

	var target string
	switch rule.MatchField {
	case repository.FieldName:
		target = strings.ToLower(t.Name)
	case repository.FieldMerchantName:
		if t.MerchantName != nil {
			target = strings.ToLower(*t.MerchantName)
		}
	case repository.FieldAccountType:
		// Account types are a fixed vocabulary; substring matching makes no
		// sense here, so this is equality regardless of MatchType.
		return strings.ToLower(accountType) == val
	default:
		return false
	}

	if target == "" {
		return false
	}

	switch rule.MatchType {
	case repository.MatchContains:
		return strings.Contains(target, val)
	case repository.MatchExact:
		return target == val
	}
	return false
}
