package repository

import (
	"context"
	"database/sql"
)

// RuleRepo stores categorization rules.
type RuleRepo struct {
	db *sql.DB
}

func NewRuleRepo(db *sql.DB) *RuleRepo { return &RuleRepo{db: db} }

func (r *RuleRepo) Insert(ctx context.Context, rule Rule) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO rules(
	 id, name, match_field, match_type, match_value, action, category_string,
	 negate_amount, priority, is_active, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		rule.ID, rule.Name, rule.MatchField, rule.MatchType, rule.MatchValue,
		string(rule.Action), rule.CategoryString, rule.NegateAmount,
		rule.Priority, rule.IsActive, rule.CreatedAt)
	return err
}

func (r *RuleRepo) Update(ctx context.Context, rule Rule) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE rules SET name = ?, match_field = ?, match_type = ?, match_value = ?,
	 action = ?, category_string = ?, negate_amount = ?, priority = ?, is_active = ?
	WHERE id = ?
	`,
		rule.Name, rule.MatchField, rule.MatchType, rule.MatchValue,
		string(rule.Action), rule.CategoryString, rule.NegateAmount,
		rule.Priority, rule.IsActive, rule.ID)
	return err
}

func (r *RuleRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *RuleRepo) Get(ctx context.Context, id string) (*Rule, error) {
	row := r.db.QueryRowContext(ctx, selectRule+` WHERE id = ?`, id)
	rule, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

const selectRule = `SELECT id, name, match_field, match_type, match_value, action, category_string, negate_amount, priority, is_active, created_at FROM rules`

// List returns all rules in precedence order: priority descending, then
// insertion order. rowid breaks priority ties because created_at has only
// second resolution; two rules inserted within the same second must still
// keep their creation order. The resolver relies on this ordering for its
// tie-break.
func (r *RuleRepo) List(ctx context.Context) ([]Rule, error) {
	return r.list(ctx, selectRule+` ORDER BY priority DESC, rowid ASC`)
}

// ListActive returns only active rules, in the same precedence order.
func (r *RuleRepo) ListActive(ctx context.Context) ([]Rule, error) {
	return r.list(ctx, selectRule+` WHERE is_active = 1 ORDER BY priority DESC, rowid ASC`)
}

func (r *RuleRepo) list(ctx context.Context, query string) ([]Rule, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func scanRule(row rowScanner) (Rule, error) {
	var rule Rule
	var action string
	err := row.Scan(&rule.ID, &rule.Name, &rule.MatchField, &rule.MatchType,
		&rule.MatchValue, &action, &rule.CategoryString, &rule.NegateAmount,
		&rule.Priority, &rule.IsActive, &rule.CreatedAt)
	rule.Action = RuleAction(action)
	return rule, err
}
