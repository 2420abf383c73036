package events

import (
	"context"
	"testing"
	"time"
)

func TestNilClientIsNoOp(t *testing.T) {
	var c *Client

	ev := NewLedgerEvent(ExpenseAdded, "user-1", "exp-1", 4550)
	if err := c.Publish(context.Background(), ev); err != nil {
		t.Fatalf("nil client Publish should be a no-op, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("nil client Close should be a no-op, got %v", err)
	}
}

func TestLedgerEventJSON(t *testing.T) {
	ev := NewLedgerEvent(IncomeSet, "user-1", "", 100000)

	body, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := LedgerEventFromJSON(body)
	if err != nil {
		t.Fatalf("LedgerEventFromJSON: %v", err)
	}
	if got.Kind != IncomeSet || got.UserID != "user-1" || got.AmountCents != 100000 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.ExpenseID != "" {
		t.Errorf("income event should carry no expense id, got %q", got.ExpenseID)
	}
	if time.Since(got.Timestamp) > time.Minute {
		t.Errorf("timestamp not stamped at creation: %v", got.Timestamp)
	}
}

func TestLedgerEventFromJSONInvalid(t *testing.T) {
	if _, err := LedgerEventFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
