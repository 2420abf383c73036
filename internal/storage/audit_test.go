package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogRoundtrip(t *testing.T) {
	repo, err := NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	ts := time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC)

	require.NoError(t, repo.RecordAuditEntry(ctx, AuditEntry{
		Kind: "income_set", UserID: "user-1", AmountCents: 100000, OccurredAt: ts,
	}))
	require.NoError(t, repo.RecordAuditEntry(ctx, AuditEntry{
		Kind: "expense_added", UserID: "user-1", ExpenseID: "exp-1", AmountCents: 2500, OccurredAt: ts.Add(time.Minute),
	}))
	require.NoError(t, repo.RecordAuditEntry(ctx, AuditEntry{
		Kind: "expense_added", UserID: "user-2", ExpenseID: "exp-2", AmountCents: 9900, OccurredAt: ts,
	}))

	entries, err := repo.ListAuditEntries(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "income_set", entries[0].Kind)
	assert.Equal(t, int64(100000), entries[0].AmountCents)
	assert.Equal(t, ts, entries[0].OccurredAt)
	assert.Equal(t, "expense_added", entries[1].Kind)
	assert.Equal(t, "exp-1", entries[1].ExpenseID)

	other, err := repo.ListAuditEntries(ctx, "user-3")
	require.NoError(t, err)
	assert.Empty(t, other)
}
