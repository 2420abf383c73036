// Package services orchestrates ledger operations across the store and the
// optional event publisher.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendtrack/internal/core"
	"spendtrack/internal/events"
)

// LedgerStore persists the per-user income record and expense collection.
type LedgerStore interface {
	SetIncome(ctx context.Context, userID string, amount core.Money) error
	Income(ctx context.Context, userID string) (core.Money, error)
	AddExpense(ctx context.Context, e core.Expense) (string, error)
	GetExpense(ctx context.Context, id string) (*core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	ListExpenses(ctx context.Context, userID string) ([]core.Expense, error)
}

// EventPublisher receives ledger change notifications. Publishing is
// best-effort: failures never fail the request.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.LedgerEvent) error
}

// LedgerService is the orchestration layer between handlers and the store.
type LedgerService struct {
	store  LedgerStore
	events EventPublisher
}

func NewLedgerService(store LedgerStore, publisher EventPublisher) *LedgerService {
	return &LedgerService{store: store, events: publisher}
}

// SetIncome upserts the user's income record.
func (s *LedgerService) SetIncome(ctx context.Context, userID string, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if err := s.store.SetIncome(ctx, userID, amount); err != nil {
		return fmt.Errorf("set income: %w", err)
	}

	s.publish(ctx, events.NewLedgerEvent(events.IncomeSet, userID, "", amount.Cents))
	return nil
}

// AddExpense validates and stores a new expense tagged with the caller's
// user id, returning the store-assigned id.
func (s *LedgerService) AddExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	id, err := s.store.AddExpense(ctx, e)
	if err != nil {
		return "", fmt.Errorf("add expense: %w", err)
	}

	s.publish(ctx, events.NewLedgerEvent(events.ExpenseAdded, e.UserID, id, e.Amount.Cents))
	return id, nil
}

// GetExpense returns one expense by id, (nil, nil) when absent.
func (s *LedgerService) GetExpense(ctx context.Context, id string) (*core.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// EditExpense replaces the four mutable fields of an existing expense.
// Returns core.ErrExpenseNotFound when the id does not resolve. The event
// is attributed to the expense owner, who may differ from the editor.
func (s *LedgerService) EditExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	owner, err := s.store.GetExpense(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("lookup expense: %w", err)
	}
	if owner == nil {
		return core.ErrExpenseNotFound
	}

	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return err
	}

	s.publish(ctx, events.NewLedgerEvent(events.ExpenseUpdated, owner.UserID, e.ID, e.Amount.Cents))
	return nil
}

// DeleteExpense removes an expense. Idempotent: deleting a missing id is
// not an error, mirroring the store's delete-if-present semantics. An event
// is published only when a row actually existed, attributed to its owner.
func (s *LedgerService) DeleteExpense(ctx context.Context, id string) error {
	existing, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup expense: %w", err)
	}

	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	if existing != nil {
		s.publish(ctx, events.NewLedgerEvent(events.ExpenseDeleted, existing.UserID, id, existing.Amount.Cents))
	}
	return nil
}

// Dashboard reads the user's ledger and computes the derived summary.
// The income and expense reads are two store calls and deliberately not
// transactional with concurrent writes.
func (s *LedgerService) Dashboard(ctx context.Context, userID string) (core.Money, []core.Expense, core.DashboardSummary, error) {
	income, err := s.store.Income(ctx, userID)
	if err != nil {
		return core.Money{}, nil, core.DashboardSummary{}, fmt.Errorf("read income: %w", err)
	}

	expenses, err := s.store.ListExpenses(ctx, userID)
	if err != nil {
		return core.Money{}, nil, core.DashboardSummary{}, fmt.Errorf("list expenses: %w", err)
	}

	return income, expenses, core.Summarize(income, expenses), nil
}

func (s *LedgerService) publish(ctx context.Context, ev events.LedgerEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		// Events are advisory; the mutation already succeeded.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", ev.Kind, "user_id", ev.UserID, "error", err)
	}
}
