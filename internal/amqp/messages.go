package amqp

import (
	"encoding/json"
	"time"

	"expense-tracker/internal/core"
)

// EventKind tells what happened to a transaction.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

// TransactionEvent is published after a ledger change. Deleted events only
// carry the id.
type TransactionEvent struct {
	Kind        EventKind `json:"kind"`
	ID          string    `json:"id"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category,omitempty"`
	Date        string    `json:"date,omitempty"`
	Type        string    `json:"type,omitempty"`
	Field       string    `json:"field,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewTransactionEvent snapshots t for the given kind.
func NewTransactionEvent(kind EventKind, t core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Kind:        kind,
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount,
		Category:    t.Category,
		Date:        t.Date.String(),
		Type:        string(t.Type),
		Timestamp:   time.Now(),
	}
}

// NewDeletedEvent creates an event for a removed transaction.
func NewDeletedEvent(id string) *TransactionEvent {
	return &TransactionEvent{
		Kind:      EventDeleted,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// RoutingKey is the key the event is published under, e.g. "transaction.created".
func (m *TransactionEvent) RoutingKey() string {
	return "transaction." + string(m.Kind)
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventFromJSON creates a message from JSON bytes
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
