package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendtrack/internal/core"
	"spendtrack/internal/events"
)

// fakeLedgerStore implements LedgerStore in memory.
type fakeLedgerStore struct {
	income   map[string]int64
	expenses map[string]core.Expense
	nextID   int
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{
		income:   make(map[string]int64),
		expenses: make(map[string]core.Expense),
	}
}

func (f *fakeLedgerStore) SetIncome(_ context.Context, userID string, amount core.Money) error {
	f.income[userID] = amount.Cents
	return nil
}

func (f *fakeLedgerStore) Income(_ context.Context, userID string) (core.Money, error) {
	return core.Money{Cents: f.income[userID]}, nil
}

func (f *fakeLedgerStore) AddExpense(_ context.Context, e core.Expense) (string, error) {
	f.nextID++
	id := "exp-" + strconv.Itoa(f.nextID)
	e.ID = id
	f.expenses[id] = e
	return id, nil
}

func (f *fakeLedgerStore) GetExpense(_ context.Context, id string) (*core.Expense, error) {
	e, ok := f.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeLedgerStore) UpdateExpense(_ context.Context, e core.Expense) error {
	old, ok := f.expenses[e.ID]
	if !ok {
		return core.ErrExpenseNotFound
	}
	e.UserID = old.UserID
	f.expenses[e.ID] = e
	return nil
}

func (f *fakeLedgerStore) DeleteExpense(_ context.Context, id string) error {
	delete(f.expenses, id)
	return nil
}

func (f *fakeLedgerStore) ListExpenses(_ context.Context, userID string) ([]core.Expense, error) {
	var out []core.Expense
	for _, e := range f.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	published []events.LedgerEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.LedgerEvent) error {
	p.published = append(p.published, ev)
	return nil
}

func TestSetIncomePublishesEvent(t *testing.T) {
	store := newFakeLedgerStore()
	pub := &recordingPublisher{}
	svc := NewLedgerService(store, pub)
	ctx := context.Background()

	require.NoError(t, svc.SetIncome(ctx, "u1", core.Money{Cents: 100000}))
	assert.Equal(t, int64(100000), store.income["u1"])
	require.Len(t, pub.published, 1)
	assert.Equal(t, events.IncomeSet, pub.published[0].Kind)

	require.Error(t, svc.SetIncome(ctx, "u1", core.Money{Cents: -1}))
	assert.Len(t, pub.published, 1, "invalid amount must not publish")
}

func TestAddExpense(t *testing.T) {
	store := newFakeLedgerStore()
	pub := &recordingPublisher{}
	svc := NewLedgerService(store, pub)
	ctx := context.Background()

	date, _ := core.ParseDate("2026-08-15")
	id, err := svc.AddExpense(ctx, core.Expense{
		UserID: "u1", Description: "groceries",
		Amount: core.Money{Cents: 4550}, Category: "food", Date: date,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, pub.published, 1)
	assert.Equal(t, events.ExpenseAdded, pub.published[0].Kind)
	assert.Equal(t, id, pub.published[0].ExpenseID)

	_, err = svc.AddExpense(ctx, core.Expense{UserID: "u1", Amount: core.Money{Cents: 1}})
	assert.ErrorIs(t, err, core.ErrInvalidDate, "zero date must be rejected")
}

func TestEditExpense(t *testing.T) {
	store := newFakeLedgerStore()
	pub := &recordingPublisher{}
	svc := NewLedgerService(store, pub)
	ctx := context.Background()

	date, _ := core.ParseDate("2026-08-15")
	id, err := svc.AddExpense(ctx, core.Expense{
		UserID: "u1", Description: "bus", Amount: core.Money{Cents: 200},
		Category: "transport", Date: date,
	})
	require.NoError(t, err)

	// The edit payload carries no user id; the event must still be
	// attributed to the expense owner.
	newDate, _ := core.ParseDate("2026-08-16")
	require.NoError(t, svc.EditExpense(ctx, core.Expense{
		ID: id, Description: "train", Amount: core.Money{Cents: 450},
		Category: "transport", Date: newDate,
	}))

	got, err := svc.GetExpense(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "train", got.Description)
	assert.Equal(t, int64(450), got.Amount.Cents)
	assert.Equal(t, "2026-08-16", got.Date.Format(core.DateLayout))

	require.Len(t, pub.published, 2)
	edited := pub.published[1]
	assert.Equal(t, events.ExpenseUpdated, edited.Kind)
	assert.Equal(t, "u1", edited.UserID)
	assert.Equal(t, int64(450), edited.AmountCents)

	err = svc.EditExpense(ctx, core.Expense{
		ID: "missing", Amount: core.Money{Cents: 1}, Date: newDate,
	})
	assert.ErrorIs(t, err, core.ErrExpenseNotFound)
	assert.Len(t, pub.published, 2, "failed edit must not publish")
}

func TestDeleteExpenseIdempotent(t *testing.T) {
	store := newFakeLedgerStore()
	pub := &recordingPublisher{}
	svc := NewLedgerService(store, pub)
	ctx := context.Background()

	date, _ := core.ParseDate("2026-08-15")
	id, err := svc.AddExpense(ctx, core.Expense{
		UserID: "u1", Description: "bus", Amount: core.Money{Cents: 200},
		Category: "transport", Date: date,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExpense(ctx, id))
	require.NoError(t, svc.DeleteExpense(ctx, id), "second delete is a no-op")

	list, err := store.ListExpenses(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	// One add event, one delete event attributed to the owner; the
	// second delete removed nothing and published nothing.
	require.Len(t, pub.published, 2)
	deleted := pub.published[1]
	assert.Equal(t, events.ExpenseDeleted, deleted.Kind)
	assert.Equal(t, "u1", deleted.UserID)
	assert.Equal(t, id, deleted.ExpenseID)
	assert.Equal(t, int64(200), deleted.AmountCents)
}

func TestDashboard(t *testing.T) {
	store := newFakeLedgerStore()
	svc := NewLedgerService(store, nil)
	ctx := context.Background()

	require.NoError(t, svc.SetIncome(ctx, "u1", core.Money{Cents: 100000}))
	date, _ := core.ParseDate("2026-08-15")
	for _, cents := range []int64{20000, 15000} {
		_, err := svc.AddExpense(ctx, core.Expense{
			UserID: "u1", Description: "x", Amount: core.Money{Cents: cents},
			Category: "misc", Date: date,
		})
		require.NoError(t, err)
	}

	income, expenses, summary, err := svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(100000), income.Cents)
	assert.Len(t, expenses, 2)
	assert.Equal(t, int64(35000), summary.TotalExpenses.Cents)
	assert.Equal(t, 35.0, summary.MonthlyPercentage)
	assert.Equal(t, core.QualityExcellent, summary.SpendingQuality)
	assert.Nil(t, summary.OverspendWarning)
}
