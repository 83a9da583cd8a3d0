// Package category implements the "Group > Subcategory" string format used
// across the transaction feed and the rule engine, plus the built-in
// category taxonomy.
package category

import "strings"

// Separator joins a group and a subcategory in the external string form.
const Separator = " > "

// Parse splits a category string into group and subcategory. The group-only
// form ("Food & Dining") yields an empty subcategory. The input is not
// otherwise normalized; callers keep whatever spacing the user typed inside
// the segments.
func Parse(s string) (group, sub string) {
	group, sub, found := strings.Cut(s, Separator)
	if !found {
		return group, ""
	}
	return group, sub
}

// Format re-serializes a group/subcategory pair. An empty subcategory
// produces the group-only form with no separator.
func Format(group, sub string) string {
	if sub == "" {
		return group
	}
	return group + Separator + sub
}

// Valid reports whether s is a well-formed category string: a non-blank
// group, and a non-blank subcategory if a separator is present.
func Valid(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	group, sub := Parse(s)
	if strings.TrimSpace(group) == "" {
		return false
	}
	if strings.Contains(s, Separator) && strings.TrimSpace(sub) == "" {
		return false
	}
	return true
}
