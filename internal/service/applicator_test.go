package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/homeledger/internal/database/repository"
)

func strPtr(s string) *string { return &s }

func newApplyFixture(t *testing.T) (*ApplyService, *repository.TransactionRepo, *repository.AccountRepo, *repository.RuleRepo) {
	t.Helper()
	db := newTestDB(t)
	txRepo := repository.NewTransactionRepo(db)
	acctRepo := repository.NewAccountRepo(db)
	ruleRepo := repository.NewRuleRepo(db)
	svc := &ApplyService{
		Transactions: txRepo,
		Rules:        ruleRepo,
		Accounts:     acctRepo,
		Log:          quietLogger(),
	}
	return svc, txRepo, acctRepo, ruleRepo
}

func TestApplyAllEndToEnd(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	svc, txRepo, acctRepo, ruleRepo := newApplyFixture(t)

	checking := seedAccount(t, ctx, acctRepo, "Everyday", "depository")
	card := seedAccount(t, ctx, acctRepo, "Visa", "credit")

	netflixID := seedTxn(t, ctx, txRepo, checking, "NETFLIX.COM", 1599, day(2024, time.March, 6))
	transferID := seedTxn(t, ctx, txRepo, checking, "Transfer to Savings", 50000, day(2024, time.March, 7))
	paymentID := seedTxn(t, ctx, txRepo, card, "PAYMENT THANKYOU", 20392, day(2024, time.March, 8))
	coffeeID := seedTxn(t, ctx, txRepo, checking, "Corner Coffee", 450, day(2024, time.March, 9))

	seedRule(t, ctx, ruleRepo, repository.Rule{
		MatchField: "name", MatchType: "contains", MatchValue: "netflix",
		Action: repository.ActionCategorize, CategoryString: strPtr("Entertainment > Streaming"),
		Priority: 10, IsActive: true,
	})
	seedRule(t, ctx, ruleRepo, repository.Rule{
		MatchField: "name", MatchType: "contains", MatchValue: "transfer",
		Action: repository.ActionIgnore, Priority: 5, IsActive: true,
	})
	seedRule(t, ctx, ruleRepo, repository.Rule{
		MatchField: "account_type", MatchType: "exact", MatchValue: "credit",
		Action: repository.ActionCategorize, NegateAmount: true, IsActive: true,
	})

	res, err := svc.ApplyAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, res.Applied)
	require.Empty(t, res.Failed)

	netflix, err := txRepo.Get(ctx, netflixID)
	require.NoError(t, err)
	require.NotNil(t, netflix.Category)
	require.Equal(t, "Entertainment > Streaming", *netflix.Category)
	require.False(t, netflix.IsIgnored)

	// The ignore outcome is a distinct signal from categorization.
	transfer, err := txRepo.Get(ctx, transferID)
	require.NoError(t, err)
	require.True(t, transfer.IsIgnored)
	require.Nil(t, transfer.Category)

	// Credit-card feed sign corrected: +203.92 becomes -203.92.
	payment, err := txRepo.Get(ctx, paymentID)
	require.NoError(t, err)
	require.Equal(t, int64(-20392), payment.AmountCents)

	coffee, err := txRepo.Get(ctx, coffeeID)
	require.NoError(t, err)
	require.Nil(t, coffee.Category)
	require.False(t, coffee.IsIgnored)

	// Second run over already-processed rows changes nothing: applied = 0,
	// and the sign is not flipped back.
	res2, err := svc.ApplyAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, res2.Applied)
	require.Empty(t, res2.Failed)

	payment, err = txRepo.Get(ctx, paymentID)
	require.NoError(t, err)
	require.Equal(t, int64(-20392), payment.AmountCents)
}

func TestApplyAllPriorityPrecedence(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	svc, txRepo, acctRepo, ruleRepo := newApplyFixture(t)
	acct := seedAccount(t, ctx, acctRepo, "Everyday", "depository")
	id := seedTxn(t, ctx, txRepo, acct, "ACME CORP", 1000, day(2024, time.May, 1))

	seedRule(t, ctx, ruleRepo, repository.Rule{
		MatchField: "name", MatchType: "contains", MatchValue: "acme",
		Action: repository.ActionCategorize, CategoryString: strPtr("Shopping"),
		Priority: 10, IsActive: true,
	})
	seedRule(t, ctx, ruleRepo, repository.Rule{
		MatchField: "name", MatchType: "contains", MatchValue: "acme",
		Action: repository.ActionCategorize, CategoryString: strPtr("Business > Supplies"),
		Priority: 100, IsActive: true,
	})

	res, err := svc.ApplyAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Applied)

	txn, err := txRepo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Business > Supplies", *txn.Category)
}

func TestApplyAllOverwritesExistingCategory(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	svc, txRepo, acctRepo, ruleRepo := newApplyFixture(t)
	acct := seedAccount(t, ctx, acctRepo, "Everyday", "depository")
	id := seedTxn(t, ctx, txRepo, acct, "WOOLWORTHS 1234", 8235, day(2024, time.May, 1))
	require.NoError(t, txRepo.UpdateCategory(ctx, id, strPtr("Shopping"), nil))

	seedRule(t, ctx, ruleRepo, repository.Rule{
		MatchField: "name", MatchType: "contains", MatchValue: "woolworths",
		Action: repository.ActionCategorize, CategoryString: strPtr("Food & Dining > Groceries"),
		IsActive: true,
	})

	// Last-applied-rule wins: the existing category is overwritten, not
	// merged.
	res, err := svc.ApplyAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Applied)

	txn, err := txRepo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Food & Dining > Groceries", *txn.Category)
}

func TestApplyAllInactiveRulesSkipped(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	svc, txRepo, acctRepo, ruleRepo := newApplyFixture(t)
	acct := seedAccount(t, ctx, acctRepo, "Everyday", "depository")
	id := seedTxn(t, ctx, txRepo, acct, "NETFLIX.COM", 1599, day(2024, time.May, 1))

	seedRule(t, ctx, ruleRepo, repository.Rule{
		MatchField: "name", MatchType: "contains", MatchValue: "netflix",
		Action: repository.ActionCategorize, CategoryString: strPtr("Entertainment"),
		IsActive: false,
	})

	res, err := svc.ApplyAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, res.Applied)

	txn, err := txRepo.Get(ctx, id)
	require.NoError(t, err)
	require.Nil(t, txn.Category)
}

func TestPreviewMatchesWithoutWriting(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	svc, txRepo, acctRepo, ruleRepo := newApplyFixture(t)
	acct := seedAccount(t, ctx, acctRepo, "Everyday", "depository")
	id := seedTxn(t, ctx, txRepo, acct, "NETFLIX.COM", 1599, day(2024, time.May, 1))

	ruleID := seedRule(t, ctx, ruleRepo, repository.Rule{
		MatchField: "name", MatchType: "contains", MatchValue: "netflix",
		Action: repository.ActionCategorize, CategoryString: strPtr("Entertainment > Streaming"),
		IsActive: true,
	})

	previews, err := svc.Preview(ctx)
	require.NoError(t, err)
	require.Len(t, previews, 1)
	require.Equal(t, ruleID, previews[0].RuleID)
	require.Equal(t, 1, previews[0].Matched)
	require.Equal(t, 1, previews[0].WouldChange)

	// Preview is read-only.
	txn, err := txRepo.Get(ctx, id)
	require.NoError(t, err)
	require.Nil(t, txn.Category)

	// After a real apply the rule still matches but would change nothing.
	_, err = svc.ApplyAll(ctx)
	require.NoError(t, err)
	previews, err = svc.Preview(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, previews[0].Matched)
	require.Equal(t, 0, previews[0].WouldChange)
}
