package amqp

import (
	"encoding/json"
	"time"
)

// Operations carried by sync messages.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// EntrySyncMessage tells the sync worker which entries changed locally. It
// carries only identifiers; the worker reads the full records from the local
// store before pushing them to the remote target.
type EntrySyncMessage struct {
	Operation string    `json:"operation"`
	IDs       []string  `json:"ids"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntrySyncMessage(operation string, ids []string) *EntrySyncMessage {
	return &EntrySyncMessage{
		Operation: operation,
		IDs:       ids,
		Timestamp: time.Now(),
	}
}

func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
