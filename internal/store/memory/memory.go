// Package memory is the in-memory store backend, used in tests and for
// running without a database.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"finrecon/internal/core"
	"finrecon/internal/store"
)

type Store struct {
	mu        sync.Mutex
	items     []core.Transaction
	budget    core.Budget
	recurring []core.RecurringExpense
	goals     []core.Goal
}

func New() *Store {
	return &Store{budget: core.Budget{}}
}

func (s *Store) LoadTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out, nil
}

// SaveTransaction stores the transaction, assigning an id when missing.
func (s *Store) SaveTransaction(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return tx.ID, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.items {
		if tx.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) LoadBudget(_ context.Context) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(core.Budget, len(s.budget))
	for cat, limit := range s.budget {
		out[cat] = limit
	}
	return out, nil
}

func (s *Store) SaveBudget(_ context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	next := make(core.Budget, len(b))
	for cat, limit := range b {
		next[cat] = limit
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = next
	return nil
}

func (s *Store) LoadRecurringExpenses(_ context.Context) ([]core.RecurringExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RecurringExpense, len(s.recurring))
	copy(out, s.recurring)
	return out, nil
}

func (s *Store) SaveRecurringExpense(_ context.Context, re core.RecurringExpense) (string, error) {
	if err := re.Validate(); err != nil {
		return "", err
	}
	if re.ID == "" {
		re.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recurring = append(s.recurring, re)
	return re.ID, nil
}

func (s *Store) DeleteRecurringExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, re := range s.recurring {
		if re.ID == id {
			s.recurring = append(s.recurring[:i], s.recurring[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) UpdateRecurringNextDue(_ context.Context, id, nextDue string) error {
	if _, err := core.ParseDate(nextDue); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.recurring {
		if s.recurring[i].ID == id {
			s.recurring[i].NextDue = nextDue
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) LoadGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Goal, len(s.goals))
	copy(out, s.goals)
	return out, nil
}

func (s *Store) SaveGoal(_ context.Context, g core.Goal) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, g)
	return g.ID, nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.goals {
		if g.ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

var _ store.Store = (*Store)(nil)
