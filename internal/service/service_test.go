package service

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/jask/homeledger/internal/database"
	"github.com/jask/homeledger/internal/database/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func seedAccount(t *testing.T, ctx context.Context, repo *repository.AccountRepo, name, typ string) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, repo.Insert(ctx, repository.Account{ID: id, Name: name, Type: typ}))
	return id
}

func seedTxn(t *testing.T, ctx context.Context, repo *repository.TransactionRepo, accountID, name string, cents int64, date time.Time) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, repo.Insert(ctx, repository.Transaction{
		ID:          id,
		AccountID:   accountID,
		Date:        date,
		AmountCents: cents,
		Name:        name,
	}))
	return id
}

func seedRule(t *testing.T, ctx context.Context, repo *repository.RuleRepo, r repository.Rule) string {
	t.Helper()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Name == "" {
		r.Name = r.ID
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = database.Now()
	}
	require.NoError(t, repo.Insert(ctx, r))
	return r.ID
}
