// Package worker consumes queued statement imports and runs them
// against the store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finrecon/internal/amqp"
	"finrecon/internal/services"
	"finrecon/internal/statement"
)

// Consumer is the queue side the worker drains.
type Consumer interface {
	ConsumeStatementImports(ctx context.Context, handler func(*amqp.StatementImportMessage) error) error
}

// ImportWorker processes statement import messages.
type ImportWorker struct {
	importer *services.ImportService
	consumer Consumer
}

func NewImportWorker(importer *services.ImportService, consumer Consumer) *ImportWorker {
	return &ImportWorker{importer: importer, consumer: consumer}
}

// Run consumes messages until the context ends.
func (w *ImportWorker) Run(ctx context.Context) error {
	return w.consumer.ConsumeStatementImports(ctx, func(msg *amqp.StatementImportMessage) error {
		return w.Handle(ctx, msg)
	})
}

// Handle imports one queued extraction document. A payload that can
// never be parsed comes back as amqp.ErrUnprocessable so the consume
// loop drops it instead of redelivering it forever; store failures stay
// transient and requeue.
func (w *ImportWorker) Handle(ctx context.Context, msg *amqp.StatementImportMessage) error {
	result, err := w.importer.ImportExtraction(ctx, msg.Account, msg.Extraction)
	if err != nil {
		if errors.Is(err, statement.ErrMalformed) {
			return fmt.Errorf("import statement %s: %w: %w", msg.DocumentID, amqp.ErrUnprocessable, err)
		}
		return fmt.Errorf("import statement %s: %w", msg.DocumentID, err)
	}

	slog.InfoContext(ctx, "Queued statement imported",
		"document_id", msg.DocumentID,
		"account", msg.Account,
		"imported", result.Imported,
		"excluded", result.Excluded)
	return nil
}
