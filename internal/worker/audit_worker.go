// Package worker turns consumed ledger events into durable audit records.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"spendtrack/internal/events"
	"spendtrack/internal/storage"
)

// AuditStore persists audit entries.
type AuditStore interface {
	RecordAuditEntry(ctx context.Context, e storage.AuditEntry) error
}

// AuditWorker records every ledger event it receives. Handler errors
// propagate to the consumer, which requeues the message.
type AuditWorker struct {
	store AuditStore
}

func NewAuditWorker(store AuditStore) *AuditWorker {
	return &AuditWorker{store: store}
}

// HandleEvent is the consume callback: one event in, one audit row out.
func (w *AuditWorker) HandleEvent(ctx context.Context) func(events.LedgerEvent) error {
	return func(ev events.LedgerEvent) error {
		entry := storage.AuditEntry{
			Kind:        string(ev.Kind),
			UserID:      ev.UserID,
			ExpenseID:   ev.ExpenseID,
			AmountCents: ev.AmountCents,
			OccurredAt:  ev.Timestamp,
		}

		if err := w.store.RecordAuditEntry(ctx, entry); err != nil {
			return fmt.Errorf("record audit entry: %w", err)
		}

		slog.InfoContext(ctx, "Audit entry recorded",
			"kind", ev.Kind,
			"user_id", ev.UserID,
			"expense_id", ev.ExpenseID)
		return nil
	}
}
