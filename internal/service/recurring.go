package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jask/homeledger/internal/database"
	"github.com/jask/homeledger/internal/database/repository"
)

// detectWindowDays bounds the history fed to the miner to roughly 13 months,
// enough to establish an annual cadence.
const detectWindowDays = 395

// RecurringService runs detection over stored history and persists confirmed
// candidates.
type RecurringService struct {
	DB           *sql.DB
	Transactions *repository.TransactionRepo
	Recurring    *repository.RecurringRepo
	Log          *logrus.Logger
}

// Detect mines the recent transaction history and returns candidates not
// already tracked as saved recurring records. Nothing is persisted.
func (s *RecurringService) Detect(ctx context.Context) ([]RecurringCandidate, error) {
	since := database.Now().AddDate(0, 0, -detectWindowDays)
	txns, err := s.Transactions.List(ctx, repository.TransactionFilters{Since: since})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	candidates := DetectRecurring(txns, database.Now())

	saved, err := s.Recurring.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load saved recurring: %w", err)
	}
	fresh := FilterNew(candidates, saved)

	s.Log.WithFields(logrus.Fields{
		"scanned":    len(txns),
		"candidates": len(candidates),
		"new":        len(fresh),
	}).Info("recurring detection complete")
	return fresh, nil
}

// FilterNew drops candidates already tracked by a saved recurring record.
// Identity is the normalized (name, frequency) pair, case-insensitive, the
// same key scheme the miner emits.
func FilterNew(candidates []RecurringCandidate, saved []repository.RecurringTransaction) []RecurringCandidate {
	tracked := make(map[string]bool, len(saved))
	for _, rec := range saved {
		tracked[CandidateKey(rec.Name, rec.Frequency)] = true
	}

	out := make([]RecurringCandidate, 0, len(candidates))
	for _, c := range candidates {
		if tracked[c.Key] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Confirm persists the selected candidates as active recurring records. The
// batch is atomic; underlying transactions are not retroactively tagged.
func (s *RecurringService) Confirm(ctx context.Context, candidates []RecurringCandidate) ([]repository.RecurringTransaction, error) {
	saved := make([]repository.RecurringTransaction, 0, len(candidates))
	err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		for _, c := range candidates {
			rec := repository.RecurringTransaction{
				ID:           uuid.NewString(),
				Name:         c.Name,
				MerchantName: c.MerchantName,
				AmountCents:  c.AmountCents,
				Frequency:    c.Frequency,
				IsActive:     true,
				CreatedAt:    database.Now(),
			}
			if err := s.Recurring.InsertTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("save recurring %q: %w", c.Name, err)
			}
			saved = append(saved, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Log.WithField("confirmed", len(saved)).Info("recurring candidates confirmed")
	return saved, nil
}
