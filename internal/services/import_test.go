package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"finrecon/internal/amqp"
	"finrecon/internal/core"
	"finrecon/internal/store/memory"
)

const sampleExtraction = `{"inference":{"result":{"fields":{"line_items":{"items":[
	{"fields":{"description":{"value":"PURCHASES"},"total_price":{"value":0}}},
	{"fields":{"description":{"value":"VONS #123"},"total_price":{"value":42.50}}},
	{"fields":{"description":{"value":"SHELL OIL"},"total_price":{"value":-30.00}}},
	{"fields":{"description":{"value":"PAYMENT THANK YOU"},"total_price":{"value":500.00}}},
	{"fields":{"description":{"value":"DIRECT DEPOSIT PAYROLL"},"total_price":{"value":2500.00}}}
]}}}}}`

type stubPublisher struct {
	published []*amqp.StatementImportMessage
	err       error
}

func (p *stubPublisher) PublishStatementImport(_ context.Context, msg *amqp.StatementImportMessage) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	return nil
}

func TestImportExtraction(t *testing.T) {
	st := memory.New()
	svc := NewImportService(st, nil)
	svc.now = func() time.Time { return time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC) }

	result, err := svc.ImportExtraction(context.Background(), "credit", []byte(sampleExtraction))
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if result.Imported != 3 {
		t.Fatalf("imported = %d, want 3", result.Imported)
	}
	if result.Excluded != 1 {
		t.Fatalf("excluded = %d, want 1", result.Excluded)
	}

	txs, _ := st.LoadTransactions(context.Background())
	if len(txs) != 3 {
		t.Fatalf("stored = %d, want 3", len(txs))
	}
	byVendor := map[string]core.Transaction{}
	for _, tx := range txs {
		if tx.ID == "" {
			t.Fatalf("transaction without id: %+v", tx)
		}
		if tx.Date != "01/15/2025" {
			t.Fatalf("date = %q, want 01/15/2025", tx.Date)
		}
		if tx.SourceAccount != "credit" {
			t.Fatalf("source account = %q, want credit", tx.SourceAccount)
		}
		byVendor[tx.Vendor] = tx
	}

	if tx := byVendor["VONS #123"]; tx.Category != core.CategoryGroceries || tx.Type != core.TypeExpense {
		t.Fatalf("unexpected grocery transaction: %+v", tx)
	}
	if tx := byVendor["SHELL OIL"]; tx.Category != core.CategoryGasFuel || !tx.Amount.IsPositive() {
		t.Fatalf("unexpected gas transaction: %+v", tx)
	}
	if tx := byVendor["DIRECT DEPOSIT PAYROLL"]; tx.Type != core.TypeIncome {
		t.Fatalf("unexpected payroll transaction: %+v", tx)
	}
	if _, stored := byVendor["PAYMENT THANK YOU"]; stored {
		t.Fatalf("card payment must not be stored")
	}

	// Income detection still sees the payment entry it dropped.
	if len(result.Income) != 2 {
		t.Fatalf("income records = %d, want 2", len(result.Income))
	}
}

func TestImportExtractionMalformed(t *testing.T) {
	svc := NewImportService(memory.New(), nil)
	if _, err := svc.ImportExtraction(context.Background(), "credit", []byte(`{broken`)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSubmitStatementQueued(t *testing.T) {
	pub := &stubPublisher{}
	svc := NewImportService(memory.New(), pub)

	queued, result, err := svc.SubmitStatement(context.Background(), "checking", json.RawMessage(sampleExtraction))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !queued || result != nil {
		t.Fatalf("expected queued submission, got queued=%v result=%+v", queued, result)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published = %d, want 1", len(pub.published))
	}
	if pub.published[0].Account != "checking" {
		t.Fatalf("account = %q, want checking", pub.published[0].Account)
	}
}

func TestSubmitStatementFallsBackOnPublishError(t *testing.T) {
	st := memory.New()
	svc := NewImportService(st, &stubPublisher{err: errors.New("broker down")})

	queued, result, err := svc.SubmitStatement(context.Background(), "credit", json.RawMessage(sampleExtraction))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if queued {
		t.Fatalf("expected synchronous fallback")
	}
	if result == nil || result.Imported != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSubmitStatementSynchronousWithoutPublisher(t *testing.T) {
	svc := NewImportService(memory.New(), nil)
	queued, result, err := svc.SubmitStatement(context.Background(), "credit", json.RawMessage(sampleExtraction))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if queued || result == nil {
		t.Fatalf("expected synchronous import, got queued=%v", queued)
	}
}
