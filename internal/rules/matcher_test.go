package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/homeledger/internal/database/repository"
)

func strPtr(s string) *string { return &s }

func TestMatchesNameField(t *testing.T) {
	t.Parallel()

	txn := repository.Transaction{Name: "NETFLIX.COM Sydney"}

	cases := []struct {
		name string
		rule repository.Rule
		want bool
	}{
		{"contains case-insensitive", repository.Rule{MatchField: "name", MatchType: "contains", MatchValue: "netflix"}, true},
		{"contains no hit", repository.Rule{MatchField: "name", MatchType: "contains", MatchValue: "spotify"}, false},
		{"exact full string", repository.Rule{MatchField: "name", MatchType: "exact", MatchValue: "netflix.com sydney"}, true},
		{"exact is not substring", repository.Rule{MatchField: "name", MatchType: "exact", MatchValue: "netflix.com"}, false},
		{"unknown field", repository.Rule{MatchField: "category", MatchType: "contains", MatchValue: "netflix"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Matches(tc.rule, txn, ""))
		})
	}
}

func TestMatchesMerchantAbsent(t *testing.T) {
	t.Parallel()

	rule := repository.Rule{MatchField: "merchant_name", MatchType: "contains", MatchValue: "netflix"}

	// Absent field with a non-empty match value fails to match, never errors.
	require.False(t, Matches(rule, repository.Transaction{Name: "NETFLIX.COM"}, ""))
	require.True(t, Matches(rule, repository.Transaction{MerchantName: strPtr("Netflix")}, ""))
}

func TestMatchesAccountType(t *testing.T) {
	t.Parallel()

	rule := repository.Rule{MatchField: "account_type", MatchType: "contains", MatchValue: "credit"}

	// account_type compares for equality regardless of match type.
	require.True(t, Matches(rule, repository.Transaction{}, "Credit"))
	require.False(t, Matches(rule, repository.Transaction{}, "credit_card"))
	require.False(t, Matches(rule, repository.Transaction{}, ""))
}

func TestMatchesEmptyValue(t *testing.T) {
	t.Parallel()

	// A sign-correction rule without a match value constrains nothing.
	rule := repository.Rule{MatchField: "name", MatchType: "contains", MatchValue: "", NegateAmount: true}
	require.True(t, Matches(rule, repository.Transaction{Name: "anything"}, ""))
	require.True(t, Matches(rule, repository.Transaction{Name: ""}, ""))
}
