package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/jask/homeledger/internal/database/repository"
	"github.com/jask/homeledger/internal/rules"
)

// ApplyService runs the rule engine over the transaction history.
type ApplyService struct {
	Transactions *repository.TransactionRepo
	Rules        *repository.RuleRepo
	Accounts     *repository.AccountRepo
	Log          *logrus.Logger
}

// ApplyResult reports a bulk application. Applied counts transactions whose
// stored state actually changed; Failed lists transaction ids whose write
// failed and was skipped.
type ApplyResult struct {
	Applied int      `json:"applied"`
	Failed  []string `json:"failed,omitempty"`
}

// RulePreview reports what one rule would do in a dry run.
type RulePreview struct {
	RuleID      string `json:"rule_id"`
	RuleName    string `json:"rule_name"`
	Matched     int    `json:"matched"`
	WouldChange int    `json:"would_change"`
}

// ApplyAll resolves the winning rule for every transaction and writes the
// outcome back. A failed write on one row is logged and skipped so a single
// bad record cannot abort the batch. Re-running with unchanged rules is a
// no-op reporting Applied = 0.
func (s *ApplyService) ApplyAll(ctx context.Context) (ApplyResult, error) {
	ruleset, txns, accountTypes, err := s.snapshot(ctx)
	if err != nil {
		return ApplyResult{}, err
	}

	var res ApplyResult
	for _, t := range txns {
		winner := rules.Resolve(t, accountTypes[t.AccountID], ruleset)
		if winner == nil {
			continue
		}

		outcome := outcomeFor(*winner, t)
		if !outcome.changed {
			continue
		}
		if err := s.write(ctx, t, outcome); err != nil {
			s.Log.WithFields(logrus.Fields{
				"transaction": t.ID,
				"rule":        winner.ID,
			}).WithError(err).Warn("rule application failed, skipping row")
			res.Failed = append(res.Failed, t.ID)
			continue
		}
		res.Applied++
	}

	s.Log.WithFields(logrus.Fields{
		"scanned": len(txns),
		"applied": res.Applied,
		"failed":  len(res.Failed),
	}).Info("rules applied")
	return res, nil
}

// Preview runs the same resolution as ApplyAll without writing, reporting
// per-rule match and change counts.
func (s *ApplyService) Preview(ctx context.Context) ([]RulePreview, error) {
	ruleset, txns, accountTypes, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	previews := make([]RulePreview, len(ruleset))
	index := make(map[string]int, len(ruleset))
	for i, r := range ruleset {
		previews[i] = RulePreview{RuleID: r.ID, RuleName: r.Name}
		index[r.ID] = i
	}

	for _, t := range txns {
		winner := rules.Resolve(t, accountTypes[t.AccountID], ruleset)
		if winner == nil {
			continue
		}
		p := &previews[index[winner.ID]]
		p.Matched++
		if outcomeFor(*winner, t).changed {
			p.WouldChange++
		}
	}
	return previews, nil
}

// snapshot fetches rules, transactions and the account-type lookup once; the
// batch then runs over this fixed view.
func (s *ApplyService) snapshot(ctx context.Context) ([]repository.Rule, []repository.Transaction, map[string]string, error) {
	ruleset, err := s.Rules.ListActive(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	accountTypes, err := s.Accounts.TypeMap(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	txns, err := s.Transactions.List(ctx, repository.TransactionFilters{IncludeIgnored: true})
	if err != nil {
		return nil, nil, nil, err
	}
	return ruleset, txns, accountTypes, nil
}

// ruleOutcome is the target state a matched rule produces for one row.
type ruleOutcome struct {
	changed   bool
	ignore    bool
	category  *string
	setAmount *int64
}

// outcomeFor computes the post-rule state of a transaction. Sign negation
// forces the amount negative rather than toggling it, so re-application
// cannot double-flip an already corrected row.
func outcomeFor(rule repository.Rule, t repository.Transaction) ruleOutcome {
	if rule.Action == repository.ActionIgnore {
		return ruleOutcome{ignore: true, changed: !t.IsIgnored}
	}

	out := ruleOutcome{category: t.Category}
	if rule.CategoryString != nil && *rule.CategoryString != "" {
		out.category = rule.CategoryString
		if t.Category == nil || *t.Category != *rule.CategoryString {
			out.changed = true
		}
	}
	if rule.NegateAmount {
		negated := t.AmountCents
		if negated > 0 {
			negated = -negated
		}
		if negated != t.AmountCents {
			out.setAmount = &negated
			out.changed = true
		}
	}
	return out
}

func (s *ApplyService) write(ctx context.Context, t repository.Transaction, out ruleOutcome) error {
	if out.ignore {
		return s.Transactions.SetIgnored(ctx, t.ID, true)
	}
	return s.Transactions.UpdateCategory(ctx, t.ID, out.category, out.setAmount)
}
