package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"spendtrack/internal/core"
)

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	user := identityFrom(r)

	form, err := parseExpenseForm(r)
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		setFlash(w, s.secureCookie, "error", "Invalid expense amount.")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	case errors.Is(err, core.ErrInvalidDate):
		setFlash(w, s.secureCookie, "error", "Invalid date. Use YYYY-MM-DD.")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	case err != nil:
		setFlash(w, s.secureCookie, "error", "Invalid form submission.")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	_, err = s.ledger.AddExpense(r.Context(), core.Expense{
		UserID:      user.ID,
		Description: form.Description,
		Amount:      form.Amount,
		Category:    form.Category,
		Date:        form.Date,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "Add expense failed", "error", err, "user_id", user.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setFlash(w, s.secureCookie, "success", "Expense added successfully!")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// TODO: scope delete and edit to the session user; any authenticated user
// can currently mutate any expense id.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.ledger.DeleteExpense(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete expense failed", "error", err, "expense_id", id)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setFlash(w, s.secureCookie, "success", "Expense deleted.")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// editViewModel carries the expense being edited.
type editViewModel struct {
	Flash       *Flash
	ID          string
	Description string
	Amount      string
	Category    string
	Date        string
}

func (s *Server) handleEditExpenseForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	expense, err := s.ledger.GetExpense(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Load expense failed", "error", err, "expense_id", id)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if expense == nil {
		setFlash(w, s.secureCookie, "error", "Expense not found.")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	s.render(w, r, "edit_expense.html", editViewModel{
		Flash:       popFlash(w, r, s.secureCookie),
		ID:          expense.ID,
		Description: expense.Description,
		Amount:      formatAmountInput(expense.Amount.Cents),
		Category:    expense.Category,
		Date:        expense.Date.Format(core.DateLayout),
	})
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	form, err := parseExpenseForm(r)
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		setFlash(w, s.secureCookie, "error", "Invalid expense amount.")
		http.Redirect(w, r, "/edit/"+id, http.StatusFound)
		return
	case errors.Is(err, core.ErrInvalidDate):
		setFlash(w, s.secureCookie, "error", "Invalid date. Use YYYY-MM-DD.")
		http.Redirect(w, r, "/edit/"+id, http.StatusFound)
		return
	case err != nil:
		setFlash(w, s.secureCookie, "error", "Invalid form submission.")
		http.Redirect(w, r, "/edit/"+id, http.StatusFound)
		return
	}

	err = s.ledger.EditExpense(r.Context(), core.Expense{
		ID:          id,
		Description: form.Description,
		Amount:      form.Amount,
		Category:    form.Category,
		Date:        form.Date,
	})
	if errors.Is(err, core.ErrExpenseNotFound) {
		setFlash(w, s.secureCookie, "error", "Expense not found.")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Edit expense failed", "error", err, "expense_id", id)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setFlash(w, s.secureCookie, "success", "Expense updated.")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// formatAmountInput renders cents as a plain decimal for form inputs.
func formatAmountInput(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
