package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jask/homeledger/internal/database"
	"github.com/jask/homeledger/internal/database/repository"
	"github.com/jask/homeledger/internal/rules"
)

// RuleService owns rule CRUD: validation, naming, persistence, and the
// near-duplicate warning.
type RuleService struct {
	Rules *repository.RuleRepo
	Log   *logrus.Logger
}

// Create validates and persists a new rule. The returned similar rule, when
// non-nil, is an existing rule with a nearly identical predicate; it is a
// warning for the caller, not an error.
func (s *RuleService) Create(ctx context.Context, r repository.Rule) (repository.Rule, *repository.Rule, error) {
	if err := rules.Validate(r); err != nil {
		return repository.Rule{}, nil, err
	}
	if strings.TrimSpace(r.Name) == "" {
		r.Name = rules.AutoName(r)
	}
	r.ID = uuid.NewString()
	r.CreatedAt = database.Now()

	existing, err := s.Rules.List(ctx)
	if err != nil {
		return repository.Rule{}, nil, fmt.Errorf("list rules: %w", err)
	}
	similar := rules.SimilarRule(existing, r)

	if err := s.Rules.Insert(ctx, r); err != nil {
		return repository.Rule{}, nil, fmt.Errorf("insert rule: %w", err)
	}
	s.Log.WithFields(logrus.Fields{"rule": r.ID, "name": r.Name}).Info("rule created")
	return r, similar, nil
}

// Update validates and persists changes to an existing rule. Returns nil
// when the rule does not exist.
func (s *RuleService) Update(ctx context.Context, r repository.Rule) (*repository.Rule, error) {
	current, err := s.Rules.Get(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}
	if err := rules.Validate(r); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.Name) == "" {
		r.Name = rules.AutoName(r)
	}
	r.CreatedAt = current.CreatedAt
	if err := s.Rules.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("update rule: %w", err)
	}
	return &r, nil
}

func (s *RuleService) Delete(ctx context.Context, id string) (bool, error) {
	return s.Rules.Delete(ctx, id)
}
