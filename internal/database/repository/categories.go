package repository

import (
	"context"
	"database/sql"
)

// CategoryRepo stores custom user categories.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) Insert(ctx context.Context, c Category) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO categories(id, value, created_at) VALUES(?, ?, CURRENT_TIMESTAMP);
	`, c.ID, c.Value)
	return err
}

// ListValues returns the custom category strings for merging into the
// built-in taxonomy.
func (r *CategoryRepo) ListValues(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT value FROM categories ORDER BY value`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
