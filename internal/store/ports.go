// Package store defines the ports the rest of the application persists
// through. Adapters live in the subpackages.
package store

import (
	"context"
	"errors"

	"finrecon/internal/core"
)

// ErrNotFound is returned when a transaction id does not exist.
var ErrNotFound = errors.New("not found")

// Ports for outbound adapters.
type (
	TransactionReader interface {
		LoadTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	TransactionWriter interface {
		// SaveTransaction persists the transaction and returns its id,
		// assigning one when the transaction arrives without it.
		SaveTransaction(ctx context.Context, tx core.Transaction) (id string, err error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	BudgetStore interface {
		LoadBudget(ctx context.Context) (core.Budget, error)
		// SaveBudget replaces the stored budget wholesale.
		SaveBudget(ctx context.Context, b core.Budget) error
	}

	RecurringStore interface {
		LoadRecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error)
		SaveRecurringExpense(ctx context.Context, re core.RecurringExpense) (id string, err error)
		DeleteRecurringExpense(ctx context.Context, id string) error
		// UpdateRecurringNextDue advances the schedule after a due charge
		// has been materialized into the ledger.
		UpdateRecurringNextDue(ctx context.Context, id, nextDue string) error
	}

	GoalStore interface {
		LoadGoals(ctx context.Context) ([]core.Goal, error)
		SaveGoal(ctx context.Context, g core.Goal) (id string, err error)
		DeleteGoal(ctx context.Context, id string) error
	}
)

// Store is the full persistence surface the backends implement.
type Store interface {
	TransactionReader
	TransactionWriter
	BudgetStore
	RecurringStore
	GoalStore
}
