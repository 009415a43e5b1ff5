package amqp

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewStatementImportMessage(t *testing.T) {
	extraction := json.RawMessage(`{"inference":{}}`)
	msg := NewStatementImportMessage("checking", extraction)

	if msg.DocumentID == "" {
		t.Fatalf("expected assigned document id")
	}
	if msg.Account != "checking" {
		t.Fatalf("account = %q, want checking", msg.Account)
	}
	if msg.ReceivedAt.IsZero() {
		t.Fatalf("expected ReceivedAt to be set")
	}
	if time.Since(msg.ReceivedAt) > time.Second {
		t.Fatalf("ReceivedAt should be recent")
	}
}

func TestStatementImportMessageJSON(t *testing.T) {
	msg := &StatementImportMessage{
		DocumentID: "doc-1",
		Account:    "credit",
		ReceivedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Extraction: json.RawMessage(`{"inference":{"result":{}}}`),
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	parsed, err := StatementImportMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if parsed.DocumentID != msg.DocumentID || parsed.Account != msg.Account {
		t.Fatalf("round trip mismatch: %+v", parsed)
	}
	if !parsed.ReceivedAt.Equal(msg.ReceivedAt) {
		t.Fatalf("ReceivedAt = %v, want %v", parsed.ReceivedAt, msg.ReceivedAt)
	}
	if string(parsed.Extraction) != string(msg.Extraction) {
		t.Fatalf("extraction payload mismatch")
	}
}

func TestStatementImportMessageInvalidJSON(t *testing.T) {
	if _, err := StatementImportMessageFromJSON([]byte(`{"received_at": 42}`)); err == nil {
		t.Fatalf("expected error")
	}
}
