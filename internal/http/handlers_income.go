package http

import (
	"log/slog"
	"net/http"
)

func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	user := identityFrom(r)

	form, err := parseIncomeForm(r)
	if err != nil {
		setFlash(w, s.secureCookie, "error", "Invalid income amount.")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	if err := s.ledger.SetIncome(r.Context(), user.ID, form.Amount); err != nil {
		slog.ErrorContext(r.Context(), "Set income failed", "error", err, "user_id", user.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setFlash(w, s.secureCookie, "success", "Income updated successfully!")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}
