package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// TransactionFilters defines list filters.
type TransactionFilters struct {
	AccountID      string
	Category       string
	Month          time.Time // use first day of month; zero time = no month filter
	Search         string
	Since          time.Time // zero time = no lower bound
	IncludeIgnored bool
}

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(
	 id, account_id, date, amount, name, merchant_name, category, pending,
	 is_ignored, notes, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`,
		t.ID, t.AccountID, t.Date, t.AmountCents, t.Name, t.MerchantName,
		t.Category, t.Pending, t.IsIgnored, t.Notes)
	return err
}

func (r *TransactionRepo) Get(ctx context.Context, id string) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectTransaction+` WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateCategory sets the category string and, when amount is non-nil, the
// stored amount in the same statement. Used by the rule applicator so a
// category change and a sign correction land atomically per row.
func (r *TransactionRepo) UpdateCategory(ctx context.Context, id string, cat *string, amount *int64) error {
	if amount != nil {
		_, err := r.db.ExecContext(ctx,
			`UPDATE transactions SET category = ?, amount = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`,
			cat, *amount, id)
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, cat, id)
	return err
}

func (r *TransactionRepo) SetIgnored(ctx context.Context, id string, ignored bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET is_ignored = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, ignored, id)
	return err
}

func (r *TransactionRepo) UpdateNotes(ctx context.Context, id string, notes *string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET notes = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, notes, id)
	return err
}

const selectTransaction = `SELECT id, account_id, date, amount, name, merchant_name, category, pending, is_ignored, notes, created_at, updated_at FROM transactions`

func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]Transaction, error) {
	var where []string
	var args []interface{}

	if f.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if !f.Month.IsZero() {
		start := time.Date(f.Month.Year(), f.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		where = append(where, "date >= ? AND date < ?")
		args = append(args, start, end)
	}
	if !f.Since.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, f.Since)
	}
	if f.Search != "" {
		where = append(where, "name LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}
	if !f.IncludeIgnored {
		where = append(where, "is_ignored = 0")
	}

	query := selectTransaction
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date ASC, created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.AccountID, &t.Date, &t.AmountCents, &t.Name,
		&t.MerchantName, &t.Category, &t.Pending, &t.IsIgnored, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt)
	return t, err
}
