// Package auth implements the authentication gate: password hashing,
// session tokens, and the signup/login/logout contract over narrow
// store interfaces.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"spendtrack/internal/core"
)

var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNoSession          = errors.New("no active session")
)

// CredentialStore persists usernames and password hashes. UserByUsername
// returns (nil, nil) when the username is unknown.
type CredentialStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*core.User, error)
	UserByUsername(ctx context.Context, username string) (*core.User, error)
}

// SessionStore maps opaque tokens to users until expiry. SessionUser
// returns (nil, nil) for unknown or expired tokens.
type SessionStore interface {
	CreateSession(ctx context.Context, token, userID string, expiresAt time.Time) error
	SessionUser(ctx context.Context, token string) (*core.User, error)
	DeleteSession(ctx context.Context, token string) error
}

// Service binds the credential and session stores into the auth contract
// the handlers consume.
type Service struct {
	creds      CredentialStore
	sessions   SessionStore
	sessionTTL time.Duration
}

func NewService(creds CredentialStore, sessions SessionStore, sessionTTL time.Duration) *Service {
	return &Service{creds: creds, sessions: sessions, sessionTTL: sessionTTL}
}

// SessionTTL returns the configured session lifetime.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Signup registers a new user. The plaintext password never reaches the
// store; only its bcrypt hash does.
func (s *Service) Signup(ctx context.Context, username, password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}

	existing, err := s.creds.UserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("lookup username: %w", err)
	}
	if existing != nil {
		return ErrUsernameTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := s.creds.CreateUser(ctx, username, hash)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User signed up", "user_id", user.ID, "username", user.Username)
	return nil
}

// Login verifies credentials and establishes a session, returning the
// authenticated user and the session token for the cookie.
func (s *Service) Login(ctx context.Context, username, password string) (*core.User, string, error) {
	user, err := s.creds.UserByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("lookup username: %w", err)
	}
	if user == nil || !CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateSessionToken()
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	expiresAt := time.Now().Add(s.sessionTTL)
	if err := s.sessions.CreateSession(ctx, token, user.ID, expiresAt); err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// Logout invalidates the session token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Resolve maps a session token to its user, or ErrNoSession when the token
// is missing, unknown, or expired.
func (s *Service) Resolve(ctx context.Context, token string) (*core.User, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	user, err := s.sessions.SessionUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if user == nil {
		return nil, ErrNoSession
	}
	return user, nil
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateSessionToken returns a 256-bit random token in hex.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
