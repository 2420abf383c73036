package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"spendtrack/internal/core"
)

// expenseRow is one expense formatted for the dashboard table.
type expenseRow struct {
	ID          string
	Description string
	Amount      string
	Category    string
	Date        string
}

// dashboardViewModel carries pre-formatted metrics to the template.
type dashboardViewModel struct {
	Flash    *Flash
	Username string
	Income   string
	HasIncome bool

	Expenses      []expenseRow
	TotalExpenses string

	// Raw engine outputs, formatted for display. ProgressWidth is the
	// progress percentage capped at 100 for the bar; the uncapped value
	// stays in ProgressPercentage.
	ProgressPercentage string
	ProgressWidth      int
	MonthlyPercentage  string
	WeeklyPercentage   string
	AnnualPercentage   string

	SpendingQuality string
	QualityClass    string
	Warning         string
}

// qualityMessages mirrors the classification copy shown to users.
var qualityMessages = map[core.SpendingQuality]string{
	core.QualityNoIncome:     "No income entered.",
	core.QualityExcellent:    "Excellent spending habits!",
	core.QualityModerate:     "Moderate spending. Keep tracking!",
	core.QualityOverspending: "Overspending! Try to cut back.",
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := identityFrom(r)

	income, expenses, summary, err := s.ledger.Dashboard(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard read failed", "error", err, "user_id", user.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	vm := dashboardViewModel{
		Flash:     popFlash(w, r, s.secureCookie),
		Username:  user.Username,
		Income:    formatLKR(income.Cents),
		HasIncome: income.Cents > 0,

		TotalExpenses:      formatLKR(summary.TotalExpenses.Cents),
		ProgressPercentage: formatPercent(summary.ProgressPercentage),
		ProgressWidth:      progressWidth(summary.ProgressPercentage),
		MonthlyPercentage:  formatPercent(summary.MonthlyPercentage),
		WeeklyPercentage:   formatPercent(summary.WeeklyPercentage),
		AnnualPercentage:   formatPercent(summary.AnnualPercentage),
		SpendingQuality:    qualityMessages[summary.SpendingQuality],
		QualityClass:       string(summary.SpendingQuality),
	}

	if summary.OverspendWarning != nil {
		vm.Warning = fmt.Sprintf("You have exceeded your income by LKR %d.%02d!",
			summary.OverspendWarning.Cents/100, summary.OverspendWarning.Cents%100)
	}

	for _, e := range expenses {
		vm.Expenses = append(vm.Expenses, expenseRow{
			ID:          e.ID,
			Description: e.Description,
			Amount:      formatLKR(e.Amount.Cents),
			Category:    e.Category,
			Date:        e.Date.Format(core.DateLayout),
		})
	}

	s.render(w, r, "dashboard.html", vm)
}

// progressWidth caps the progress bar at 100. Display-only: the engine's
// uncapped percentage is rendered alongside.
func progressWidth(p float64) int {
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return int(p)
}
