package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/homeledger/internal/database"
	"github.com/jask/homeledger/internal/database/repository"
)

func newRecurringFixture(t *testing.T) (*RecurringService, *repository.TransactionRepo, *repository.AccountRepo) {
	t.Helper()
	db := newTestDB(t)
	txRepo := repository.NewTransactionRepo(db)
	acctRepo := repository.NewAccountRepo(db)
	svc := &RecurringService{
		DB:           db,
		Transactions: txRepo,
		Recurring:    repository.NewRecurringRepo(db),
		Log:          quietLogger(),
	}
	return svc, txRepo, acctRepo
}

func TestFilterNewDropsTrackedPatterns(t *testing.T) {
	t.Parallel()

	candidates := []RecurringCandidate{
		{Key: CandidateKey("netflix", "monthly"), Name: "netflix", Frequency: "monthly"},
		{Key: CandidateKey("Spotify", "monthly"), Name: "Spotify", Frequency: "monthly"},
	}
	saved := []repository.RecurringTransaction{
		{Name: "Netflix", Frequency: "monthly"},
	}

	// Case differences do not resurface a tracked pattern.
	fresh := FilterNew(candidates, saved)
	require.Len(t, fresh, 1)
	require.Equal(t, "Spotify", fresh[0].Name)

	// Same name on a different cadence is a distinct pattern.
	weekly := []RecurringCandidate{
		{Key: CandidateKey("Netflix", "weekly"), Name: "Netflix", Frequency: "weekly"},
	}
	require.Len(t, FilterNew(weekly, saved), 1)
}

func TestDetectConfirmRedetectCycle(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	svc, txRepo, acctRepo := newRecurringFixture(t)
	acct := seedAccount(t, ctx, acctRepo, "Everyday", "depository")

	// Monthly Netflix history anchored near the current date so it falls
	// inside the detection window.
	last := database.Now().AddDate(0, 0, -5)
	for _, offset := range []int{-60, -30, 0} {
		seedTxn(t, ctx, txRepo, acct, "NETFLIX.COM", 1599, last.AddDate(0, 0, offset))
	}

	candidates, err := svc.Detect(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	c := candidates[0]
	require.Equal(t, repository.FreqMonthly, c.Frequency)
	require.Equal(t, 3, c.Occurrences)
	require.Greater(t, c.Confidence, 0.7)

	saved, err := svc.Confirm(ctx, candidates)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.True(t, saved[0].IsActive)
	require.Equal(t, "NETFLIX.COM", saved[0].Name)
	require.Equal(t, int64(1599), saved[0].AmountCents)
	require.NotEmpty(t, saved[0].ID)

	// Confirmed patterns never resurface on re-detection.
	again, err := svc.Detect(ctx)
	require.NoError(t, err)
	require.Empty(t, again)

	stored, err := svc.Recurring.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	// Confirmation does not retag the source transactions.
	txns, err := txRepo.List(ctx, repository.TransactionFilters{})
	require.NoError(t, err)
	for _, txn := range txns {
		require.Nil(t, txn.Category)
		require.False(t, txn.IsIgnored)
	}
}

func TestConfirmTogglesAndDeletes(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	svc, _, _ := newRecurringFixture(t)

	saved, err := svc.Confirm(ctx, []RecurringCandidate{
		{Key: "gym|monthly", Name: "Gym", Frequency: "monthly", AmountCents: 4500},
	})
	require.NoError(t, err)
	require.Len(t, saved, 1)

	ok, err := svc.Recurring.SetActive(ctx, saved[0].ID, false)
	require.NoError(t, err)
	require.True(t, ok)

	list, err := svc.Recurring.List(ctx)
	require.NoError(t, err)
	require.False(t, list[0].IsActive)

	ok, err = svc.Recurring.Delete(ctx, saved[0].ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Recurring.Delete(ctx, saved[0].ID)
	require.NoError(t, err)
	require.False(t, ok)
}
