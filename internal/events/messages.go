package events

import (
	"encoding/json"
	"time"
)

// EventKind names a ledger mutation.
type EventKind string

const (
	ExpenseAdded   EventKind = "expense_added"
	ExpenseUpdated EventKind = "expense_updated"
	ExpenseDeleted EventKind = "expense_deleted"
	IncomeSet      EventKind = "income_set"
)

// LedgerEvent is the message published on every ledger mutation.
// ExpenseID is empty for income events.
type LedgerEvent struct {
	Kind        EventKind `json:"kind"`
	UserID      string    `json:"user_id"`
	ExpenseID   string    `json:"expense_id,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time.
func NewLedgerEvent(kind EventKind, userID, expenseID string, amountCents int64) LedgerEvent {
	return LedgerEvent{
		Kind:        kind,
		UserID:      userID,
		ExpenseID:   expenseID,
		AmountCents: amountCents,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON creates an event from JSON bytes.
func LedgerEventFromJSON(data []byte) (LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return LedgerEvent{}, err
	}
	return e, nil
}
