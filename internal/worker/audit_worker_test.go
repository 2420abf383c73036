package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendtrack/internal/events"
	"spendtrack/internal/storage"
)

type fakeAuditStore struct {
	entries []storage.AuditEntry
	err     error
}

func (f *fakeAuditStore) RecordAuditEntry(_ context.Context, e storage.AuditEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}

func TestHandleEventRecordsEntry(t *testing.T) {
	store := &fakeAuditStore{}
	w := NewAuditWorker(store)

	ts := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	ev := events.LedgerEvent{
		Kind:        events.ExpenseAdded,
		UserID:      "user-1",
		ExpenseID:   "exp-1",
		AmountCents: 2500,
		Timestamp:   ts,
	}

	err := w.HandleEvent(context.Background())(ev)
	require.NoError(t, err)

	require.Len(t, store.entries, 1)
	got := store.entries[0]
	assert.Equal(t, "expense_added", got.Kind)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "exp-1", got.ExpenseID)
	assert.Equal(t, int64(2500), got.AmountCents)
	assert.Equal(t, ts, got.OccurredAt)
}

func TestHandleEventPropagatesStoreError(t *testing.T) {
	store := &fakeAuditStore{err: errors.New("disk full")}
	w := NewAuditWorker(store)

	err := w.HandleEvent(context.Background())(events.LedgerEvent{Kind: events.IncomeSet})
	assert.Error(t, err)
	assert.Empty(t, store.entries)
}
