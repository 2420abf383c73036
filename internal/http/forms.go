// Parsed-and-validated input structs, one per mutating action.
// Each form is constructed once at the handler boundary so malformed
// numeric and date fields are rejected before reaching business logic.

package http

import (
	"net/http"
	"time"

	"spendtrack/internal/core"
)

type signupForm struct {
	Username        string
	Password        string
	ConfirmPassword string
}

func parseSignupForm(r *http.Request) (signupForm, error) {
	if err := r.ParseForm(); err != nil {
		return signupForm{}, err
	}
	return signupForm{
		Username:        sanitizeInput(r.PostFormValue("username")),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}, nil
}

type loginForm struct {
	Username string
	Password string
}

func parseLoginForm(r *http.Request) (loginForm, error) {
	if err := r.ParseForm(); err != nil {
		return loginForm{}, err
	}
	return loginForm{
		Username: sanitizeInput(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}, nil
}

type incomeForm struct {
	Amount core.Money
}

func parseIncomeForm(r *http.Request) (incomeForm, error) {
	if err := r.ParseForm(); err != nil {
		return incomeForm{}, core.ErrInvalidAmount
	}
	cents, err := core.ParseDecimalToCents(r.PostFormValue("income"))
	if err != nil {
		return incomeForm{}, err
	}
	return incomeForm{Amount: core.Money{Cents: cents}}, nil
}

type expenseForm struct {
	Description string
	Amount      core.Money
	Category    string
	Date        time.Time
}

func parseExpenseForm(r *http.Request) (expenseForm, error) {
	if err := r.ParseForm(); err != nil {
		return expenseForm{}, core.ErrInvalidAmount
	}

	cents, err := core.ParseDecimalToCents(r.PostFormValue("amount"))
	if err != nil {
		return expenseForm{}, err
	}
	date, err := core.ParseDate(r.PostFormValue("date"))
	if err != nil {
		return expenseForm{}, err
	}

	return expenseForm{
		Description: sanitizeInput(r.PostFormValue("description")),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(r.PostFormValue("category")),
		Date:        date,
	}, nil
}
