package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Money is an amount in integer cents. Calculations stay in cents;
	// floats appear only in derived percentages and display formatting.
	Money struct {
		Cents int64
	}

	// User is an account holder. Identity key is the username
	// (unique, case-sensitive). PasswordHash is opaque at this level.
	User struct {
		ID           string
		Username     string
		PasswordHash string
		CreatedAt    time.Time
	}

	// Income is the single monthly income figure of one user.
	// At most one record per user; mutated only via upsert.
	Income struct {
		UserID string
		Amount Money
	}

	// Expense is a single spending record. ID is assigned by the store
	// and immutable, as is UserID; the other four fields are replaced
	// wholesale on edit.
	Expense struct {
		ID          string
		UserID      string
		Description string
		Amount      Money
		Category    string
		Date        time.Time
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrExpenseNotFound = errors.New("expense not found")
)

// DateLayout is the wire and storage format for expense dates.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the date and amount. Description and category are
// free-form text and never rejected.
func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return e.Amount.Validate()
}
