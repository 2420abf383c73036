package core

// SpendingQuality is a four-way classification of a user's spending
// relative to income.
type SpendingQuality string

const (
	QualityNoIncome     SpendingQuality = "no_income"
	QualityExcellent    SpendingQuality = "excellent"
	QualityModerate     SpendingQuality = "moderate"
	QualityOverspending SpendingQuality = "overspending"
)

// DashboardSummary is the derived-metrics output for one user's ledger at
// one point in time.
//
// ProgressPercentage and MonthlyPercentage are deliberately the same
// formula, and ProgressPercentage is not capped at 100 here: capping is a
// rendering concern, and callers get the raw value.
type DashboardSummary struct {
	TotalExpenses      Money
	ProgressPercentage float64
	MonthlyPercentage  float64
	WeeklyPercentage   float64
	AnnualPercentage   float64
	SpendingQuality    SpendingQuality
	// OverspendWarning is the positive excess of expenses over income,
	// nil when expenses do not exceed income.
	OverspendWarning *Money
}

// Summarize computes the dashboard metrics for one user. Pure function of
// (income, expenses); no I/O, no side effects.
//
// Every percentage applies the income==0 guard independently; the quality
// classification special-cases income==0 on its own, and the overspend
// warning fires whenever total > income regardless of classification (so a
// user with zero income and any expenses gets both QualityNoIncome and a
// warning).
func Summarize(income Money, expenses []Expense) DashboardSummary {
	var total int64
	for _, e := range expenses {
		total += e.Amount.Cents
	}

	s := DashboardSummary{TotalExpenses: Money{Cents: total}}

	if income.Cents > 0 {
		s.MonthlyPercentage = float64(total) / float64(income.Cents) * 100
		s.ProgressPercentage = float64(total) / float64(income.Cents) * 100
		s.AnnualPercentage = float64(total) / (float64(income.Cents) * 12) * 100
	}
	s.WeeklyPercentage = s.MonthlyPercentage / 4

	// Classification bands compare in integer cents: total < income*0.5
	// is exactly 2*total < income.
	switch {
	case income.Cents == 0:
		s.SpendingQuality = QualityNoIncome
	case 2*total < income.Cents:
		s.SpendingQuality = QualityExcellent
	case total <= income.Cents:
		s.SpendingQuality = QualityModerate
	default:
		s.SpendingQuality = QualityOverspending
	}

	if total > income.Cents {
		s.OverspendWarning = &Money{Cents: total - income.Cents}
	}

	return s
}
