package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finrecon/internal/core"
	"finrecon/internal/store"
)

func (r *Repository) LoadRecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, amount, category, frequency, next_due
		FROM recurring_expenses
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("load recurring expenses: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringExpense
	for rows.Next() {
		var re core.RecurringExpense
		var amount, category, frequency string
		if err := rows.Scan(&re.ID, &re.Name, &amount, &category, &frequency, &re.NextDue); err != nil {
			return nil, fmt.Errorf("scan recurring expense: %w", err)
		}
		re.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("decode amount for recurring expense %s: %w", re.ID, err)
		}
		re.Category = core.Category(category)
		re.Frequency = core.Frequency(frequency)
		out = append(out, re)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring expenses: %w", err)
	}
	return out, nil
}

func (r *Repository) SaveRecurringExpense(ctx context.Context, re core.RecurringExpense) (string, error) {
	if err := re.Validate(); err != nil {
		return "", err
	}
	if re.ID == "" {
		re.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_expenses (id, name, amount, category, frequency, next_due)
		VALUES (?, ?, ?, ?, ?, ?)`,
		re.ID, re.Name, re.Amount.String(), string(re.Category), string(re.Frequency), re.NextDue)
	if err != nil {
		return "", fmt.Errorf("save recurring expense: %w", err)
	}

	slog.InfoContext(ctx, "Recurring expense saved to SQLite",
		"id", re.ID,
		"name", re.Name,
		"frequency", re.Frequency,
		"next_due", re.NextDue)

	return re.ID, nil
}

func (r *Repository) DeleteRecurringExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recurring expense: rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateRecurringNextDue(ctx context.Context, id, nextDue string) error {
	if _, err := core.ParseDate(nextDue); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE recurring_expenses SET next_due = ? WHERE id = ?`, nextDue, id)
	if err != nil {
		return fmt.Errorf("update recurring next due: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update recurring next due: rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) LoadGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, target, current, deadline
		FROM goals
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var g core.Goal
		var target, current string
		if err := rows.Scan(&g.ID, &g.Name, &target, &current, &g.Deadline); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.Target, err = decimal.NewFromString(target)
		if err != nil {
			return nil, fmt.Errorf("decode target for goal %s: %w", g.ID, err)
		}
		g.Current, err = decimal.NewFromString(current)
		if err != nil {
			return nil, fmt.Errorf("decode progress for goal %s: %w", g.ID, err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return out, nil
}

func (r *Repository) SaveGoal(ctx context.Context, g core.Goal) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, name, target, current, deadline)
		VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Target.String(), g.Current.String(), g.Deadline)
	if err != nil {
		return "", fmt.Errorf("save goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal saved to SQLite",
		"id", g.ID,
		"name", g.Name,
		"target", g.Target.String())

	return g.ID, nil
}

func (r *Repository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete goal: rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
