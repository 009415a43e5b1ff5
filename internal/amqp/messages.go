package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StatementImportMessage carries one extraction result document to the
// import worker. The raw extraction JSON travels in the message so the
// worker does not need access to the document store.
type StatementImportMessage struct {
	DocumentID string          `json:"document_id"`
	Account    string          `json:"account"`
	ReceivedAt time.Time       `json:"received_at"`
	Extraction json.RawMessage `json:"extraction"`
}

func NewStatementImportMessage(account string, extraction json.RawMessage) *StatementImportMessage {
	return &StatementImportMessage{
		DocumentID: uuid.NewString(),
		Account:    account,
		ReceivedAt: time.Now(),
		Extraction: extraction,
	}
}

func (m *StatementImportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func StatementImportMessageFromJSON(data []byte) (*StatementImportMessage, error) {
	var msg StatementImportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
