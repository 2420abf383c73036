// Package storage implements the credential, ledger, and session stores
// on SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"spendtrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// Every pooled connection to ":memory:" opens its own empty database,
	// so an in-memory store must stay on a single connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser implements auth.CredentialStore.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passwordHash string) (*core.User, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		id, username, passwordHash, now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", id, "username", username)
	return &core.User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: now}, nil
}

// UserByUsername implements auth.CredentialStore. The lookup is
// case-sensitive; unknown usernames yield (nil, nil).
func (r *SQLiteRepository) UserByUsername(ctx context.Context, username string) (*core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`,
		username,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*core.User, error) {
	var u core.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		u.CreatedAt = t
	}
	return &u, nil
}

// SetIncome upserts the single income record of a user.
func (r *SQLiteRepository) SetIncome(ctx context.Context, userID string, amount core.Money) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO income (user_id, amount_cents) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET amount_cents = excluded.amount_cents`,
		userID, amount.Cents,
	)
	if err != nil {
		return fmt.Errorf("upsert income: %w", err)
	}
	return nil
}

// Income returns the user's income, zero when none has been set.
func (r *SQLiteRepository) Income(ctx context.Context, userID string) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT amount_cents FROM income WHERE user_id = ?`, userID,
	).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, nil
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("select income: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// AddExpense stores a new expense and returns its assigned id.
func (r *SQLiteRepository) AddExpense(ctx context.Context, e core.Expense) (string, error) {
	id := uuid.NewString()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, description, amount_cents, category, date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, e.UserID, e.Description, e.Amount.Cents, e.Category, e.Date.Format(core.DateLayout),
	)
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"user_id", e.UserID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents)
	return id, nil
}

// GetExpense returns one expense by id, (nil, nil) when absent.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (*core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, description, amount_cents, category, date
		 FROM expenses WHERE id = ?`, id,
	)

	var e core.Expense
	var date string
	if err := row.Scan(&e.ID, &e.UserID, &e.Description, &e.Amount.Cents, &e.Category, &date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan expense: %w", err)
	}
	d, err := time.Parse(core.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse expense date: %w", err)
	}
	e.Date = d
	return &e, nil
}

// UpdateExpense replaces the four mutable fields of an existing expense.
// A missing id yields core.ErrExpenseNotFound.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount_cents = ?, category = ?, date = ? WHERE id = ?`,
		e.Description, e.Amount.Cents, e.Category, e.Date.Format(core.DateLayout), e.ID,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrExpenseNotFound
	}
	return nil
}

// DeleteExpense removes an expense if present. Deleting a missing id is
// not an error.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// ListExpenses returns all expenses of one user, newest first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, description, amount_cents, category, date
		 FROM expenses WHERE user_id = ? ORDER BY date DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		var date string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &e.Amount.Cents, &e.Category, &date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		d, err := time.Parse(core.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse expense date: %w", err)
		}
		e.Date = d
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// CreateSession implements auth.SessionStore.
func (r *SQLiteRepository) CreateSession(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, userID, expiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// SessionUser implements auth.SessionStore. Unknown or expired tokens
// yield (nil, nil).
func (r *SQLiteRepository) SessionUser(ctx context.Context, token string) (*core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT u.id, u.username, u.password_hash, u.created_at
		 FROM sessions s JOIN users u ON s.user_id = u.id
		 WHERE s.token = ? AND s.expires_at > ?`,
		token, time.Now().Unix(),
	)
	return scanUser(row)
}

// DeleteSession implements auth.SessionStore.
func (r *SQLiteRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry and returns
// how many were deleted.
func (r *SQLiteRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
