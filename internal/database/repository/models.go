package repository

import "time"

// Account represents an account row. Type is the classification used by
// account_type rules ("depository", "credit", "loan", "investment").
type Account struct {
	ID        string
	Name      string
	Type      string
	Subtype   *string
	CreatedAt time.Time
}

// Transaction represents a transaction row. AmountCents is signed:
// positive = money out, negative = money in. Category holds the external
// "Group" / "Group > Subcategory" string, nil when uncategorized.
type Transaction struct {
	ID           string
	AccountID    string
	Date         time.Time
	AmountCents  int64
	Name         string
	MerchantName *string
	Category     *string
	Pending      bool
	IsIgnored    bool
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RuleAction selects what a matched rule does to a transaction.
type RuleAction string

const (
	ActionCategorize RuleAction = "categorize"
	ActionIgnore     RuleAction = "ignore"
)

// Rule match fields and types.
const (
	FieldName         = "name"
	FieldMerchantName = "merchant_name"
	FieldAccountType  = "account_type"

	MatchContains = "contains"
	MatchExact    = "exact"
)

// Rule represents a user-authored categorization rule. CategoryString and
// NegateAmount are only meaningful when Action is categorize.
type Rule struct {
	ID             string
	Name           string
	MatchField     string
	MatchType      string
	MatchValue     string
	Action         RuleAction
	CategoryString *string
	NegateAmount   bool
	Priority       int
	IsActive       bool
	CreatedAt      time.Time
}

// Recurring frequencies.
const (
	FreqWeekly    = "weekly"
	FreqBiweekly  = "biweekly"
	FreqMonthly   = "monthly"
	FreqQuarterly = "quarterly"
	FreqAnnual    = "annual"
)

// RecurringTransaction represents a confirmed recurring payment row.
type RecurringTransaction struct {
	ID           string
	Name         string
	MerchantName *string
	AmountCents  int64
	Frequency    string
	IsActive     bool
	Notes        *string
	CreatedAt    time.Time
}

// Category represents a custom user category row. Value is the external
// category string merged into the built-in taxonomy for display.
type Category struct {
	ID        string
	Value     string
	CreatedAt time.Time
}
