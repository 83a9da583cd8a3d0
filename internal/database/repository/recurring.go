package repository

import (
	"context"
	"database/sql"
)

// RecurringRepo stores confirmed recurring transactions.
type RecurringRepo struct {
	db *sql.DB
}

func NewRecurringRepo(db *sql.DB) *RecurringRepo { return &RecurringRepo{db: db} }

func (r *RecurringRepo) Insert(ctx context.Context, rec RecurringTransaction) error {
	return r.insert(ctx, r.db, rec)
}

// InsertTx inserts within an existing transaction, used when confirming a
// batch of candidates atomically.
func (r *RecurringRepo) InsertTx(ctx context.Context, tx *sql.Tx, rec RecurringTransaction) error {
	return r.insert(ctx, tx, rec)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *RecurringRepo) insert(ctx context.Context, ex execer, rec RecurringTransaction) error {
	_, err := ex.ExecContext(ctx, `
	INSERT INTO recurring_transactions(id, name, merchant_name, amount, frequency, is_active, notes, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, rec.ID, rec.Name, rec.MerchantName, rec.AmountCents, rec.Frequency, rec.IsActive, rec.Notes)
	return err
}

func (r *RecurringRepo) List(ctx context.Context) ([]RecurringTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, merchant_name, amount, frequency, is_active, notes, created_at
	FROM recurring_transactions ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecurringTransaction
	for rows.Next() {
		var rec RecurringTransaction
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.MerchantName, &rec.AmountCents,
			&rec.Frequency, &rec.IsActive, &rec.Notes, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *RecurringRepo) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_transactions SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *RecurringRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_transactions WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
