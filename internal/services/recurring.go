package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finrecon/internal/core"
	"finrecon/internal/store"
)

// RecurringProcessor materializes due recurring charges into the
// transaction ledger.
type RecurringProcessor struct {
	store store.Store
}

func NewRecurringProcessor(st store.Store) *RecurringProcessor {
	return &RecurringProcessor{store: st}
}

// ProcessDue walks the recurring expenses and creates a ledger entry for
// each one whose next-due date has arrived, then advances its schedule
// past now. At most one entry per item is created per run, a long outage
// does not stack a backlog of charges. Per-item failures are logged and
// skipped so one bad row cannot stall the rest.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	items, err := p.store.LoadRecurringExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("load recurring expenses: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring expenses",
		"total", len(items),
		"processing_date", core.FormatDate(now))

	processed := 0
	for _, re := range items {
		checker, err := GetDuenessChecker(re.Frequency)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping recurring expense with unknown frequency",
				"id", re.ID, "frequency", re.Frequency)
			continue
		}

		due, err := core.ParseDate(re.NextDue)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping recurring expense with unparsable due date",
				"id", re.ID, "next_due", re.NextDue)
			continue
		}

		if !checker.IsDue(due, now) {
			continue
		}

		tx := core.Transaction{
			Date:     core.FormatDate(now),
			Vendor:   re.Name,
			Amount:   re.Amount,
			Category: re.Category,
			Type:     core.TypeExpense,
			Notes:    "recurring charge",
		}
		if _, err := p.store.SaveTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to materialize recurring expense",
				"id", re.ID, "name", re.Name, "error", err)
			continue
		}

		next := checker.Advance(due)
		for !next.After(now) {
			next = checker.Advance(next)
		}
		if err := p.store.UpdateRecurringNextDue(ctx, re.ID, core.FormatDate(next)); err != nil {
			// The ledger entry exists; the schedule will self-correct on
			// the next successful update.
			slog.ErrorContext(ctx, "Failed to advance recurring schedule",
				"id", re.ID, "error", err)
		}

		processed++
		slog.InfoContext(ctx, "Materialized recurring expense",
			"id", re.ID,
			"name", re.Name,
			"amount", re.Amount.String(),
			"next_due", core.FormatDate(next))
	}

	slog.InfoContext(ctx, "Recurring expense processing complete",
		"processed", processed,
		"total_checked", len(items))

	return processed, nil
}
