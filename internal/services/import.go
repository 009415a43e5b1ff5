// Package services orchestrates imports and report assembly on top of
// the store and AMQP.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"finrecon/internal/amqp"
	"finrecon/internal/core"
	"finrecon/internal/statement"
	"finrecon/internal/store"
)

// ImportPublisher queues extraction results for asynchronous import.
type ImportPublisher interface {
	PublishStatementImport(ctx context.Context, msg *amqp.StatementImportMessage) error
}

// ImportResult summarizes one processed extraction document.
type ImportResult struct {
	Imported int                 `json:"imported"`
	Excluded int                 `json:"excluded"`
	Income   []core.IncomeRecord `json:"income,omitempty"`
}

// ImportService turns extraction results into stored transactions.
type ImportService struct {
	store     store.Store
	publisher ImportPublisher
	now       func() time.Time
}

func NewImportService(st store.Store, publisher ImportPublisher) *ImportService {
	return &ImportService{store: st, publisher: publisher, now: time.Now}
}

// SubmitStatement accepts an extraction result document. When a
// publisher is configured the document is queued for the worker and
// queued=true comes back with a nil result; otherwise the import runs
// synchronously.
func (s *ImportService) SubmitStatement(ctx context.Context, account string, extraction json.RawMessage) (queued bool, result *ImportResult, err error) {
	if s.publisher != nil {
		msg := amqp.NewStatementImportMessage(account, extraction)
		if err := s.publisher.PublishStatementImport(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to queue statement import, falling back to synchronous import",
				"document_id", msg.DocumentID, "error", err)
		} else {
			return true, nil, nil
		}
	}

	result, err = s.ImportExtraction(ctx, account, extraction)
	return false, result, err
}

// ImportExtraction parses an extraction result and stores its line
// items as classified transactions. Card payment entries are dropped,
// they would double-count the purchases they pay off.
func (s *ImportService) ImportExtraction(ctx context.Context, account string, extraction []byte) (*ImportResult, error) {
	items, err := statement.ParseExtraction(extraction)
	if err != nil {
		return nil, err
	}

	// Line items carry no usable per-item date, the import date stands in.
	date := core.FormatDate(s.now())

	result := &ImportResult{Income: core.DetectIncome(items)}
	for _, item := range items {
		category := core.Classify(item.Description)
		if category == core.CategoryExcludePayment {
			result.Excluded++
			continue
		}

		tx := core.Transaction{
			ID:            uuid.NewString(),
			Date:          date,
			Vendor:        item.Description,
			Amount:        item.Amount,
			Category:      category,
			Type:          item.Type,
			SourceAccount: account,
		}
		if _, err := s.store.SaveTransaction(ctx, tx); err != nil {
			return nil, fmt.Errorf("import line item %q: %w", item.Description, err)
		}
		result.Imported++
	}

	slog.InfoContext(ctx, "Statement import complete",
		"account", account,
		"imported", result.Imported,
		"excluded", result.Excluded,
		"income_records", len(result.Income))

	return result, nil
}
