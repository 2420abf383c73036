package storage

import (
	"context"
	"fmt"
	"time"
)

// AuditEntry is one recorded ledger mutation.
type AuditEntry struct {
	ID          int64
	Kind        string
	UserID      string
	ExpenseID   string
	AmountCents int64
	OccurredAt  time.Time
}

// RecordAuditEntry appends a ledger mutation to the audit log.
func (r *SQLiteRepository) RecordAuditEntry(ctx context.Context, e AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (kind, user_id, expense_id, amount_cents, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Kind, e.UserID, e.ExpenseID, e.AmountCents, e.OccurredAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries returns a user's audit trail, oldest first.
func (r *SQLiteRepository) ListAuditEntries(ctx context.Context, userID string) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, user_id, expense_id, amount_cents, occurred_at
		 FROM audit_log WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var occurredAt string
		if err := rows.Scan(&e.ID, &e.Kind, &e.UserID, &e.ExpenseID, &e.AmountCents, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, occurredAt); err == nil {
			e.OccurredAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
