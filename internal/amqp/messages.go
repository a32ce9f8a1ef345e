package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Op is the kind of ledger mutation an event reports.
type Op string

const (
	OpCreated     Op = "created"
	OpUpdated     Op = "updated"
	OpDeleted     Op = "deleted"
	OpBulkDeleted Op = "bulk_deleted"
)

func (o Op) Valid() bool {
	switch o {
	case OpCreated, OpUpdated, OpDeleted, OpBulkDeleted:
		return true
	}
	return false
}

// TransactionEvent is a lightweight notification; consumers re-read the ledger
// rather than trusting a payload copy.
type TransactionEvent struct {
	EventID       string    `json:"event_id"`
	Op            Op        `json:"op"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	Count         int64     `json:"count"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEvent(op Op, id, count int64) *TransactionEvent {
	return &TransactionEvent{
		EventID:       uuid.NewString(),
		Op:            op,
		TransactionID: id,
		Count:         count,
		Timestamp:     time.Now().UTC(),
	}
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Op.Valid() {
		return nil, fmt.Errorf("unknown event op %q", msg.Op)
	}
	if _, err := uuid.Parse(msg.EventID); err != nil {
		return nil, fmt.Errorf("invalid event id: %w", err)
	}
	return &msg, nil
}
