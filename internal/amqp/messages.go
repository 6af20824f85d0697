package amqp

import (
	"encoding/json"
	"time"
)

// Ledger entities carried in event messages.
const (
	EntityTransaction = "transaction"
	EntityBudget      = "budget"
)

// Actions carried in event messages.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// LedgerEventMessage is a lightweight notification that a ledger record changed.
// It carries only identifiers, the worker fetches current state from the database.
type LedgerEventMessage struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Month     string    `json:"month,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEventMessage creates a new ledger event message
func NewLedgerEventMessage(entity, action, id, month string) *LedgerEventMessage {
	return &LedgerEventMessage{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Month:     month,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
