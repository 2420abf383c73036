package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendtrack/internal/core"
)

// fakeStore implements CredentialStore and SessionStore in memory.
type fakeStore struct {
	users    map[string]*core.User
	sessions map[string]string // token -> user id
	expiry   map[string]time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*core.User),
		sessions: make(map[string]string),
		expiry:   make(map[string]time.Time),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, username, passwordHash string) (*core.User, error) {
	u := &core.User{ID: "u-" + username, Username: username, PasswordHash: passwordHash}
	f.users[username] = u
	return u, nil
}

func (f *fakeStore) UserByUsername(_ context.Context, username string) (*core.User, error) {
	return f.users[username], nil
}

func (f *fakeStore) CreateSession(_ context.Context, token, userID string, expiresAt time.Time) error {
	f.sessions[token] = userID
	f.expiry[token] = expiresAt
	return nil
}

func (f *fakeStore) SessionUser(_ context.Context, token string) (*core.User, error) {
	userID, ok := f.sessions[token]
	if !ok || time.Now().After(f.expiry[token]) {
		return nil, nil
	}
	for _, u := range f.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) DeleteSession(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash, "hash must not be the plaintext")
	assert.True(t, CheckPassword("s3cret", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestGenerateSessionToken(t *testing.T) {
	a, err := GenerateSessionToken()
	require.NoError(t, err)
	b, err := GenerateSessionToken()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("mismatched passwords create no user", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store, store, time.Hour)

		err := svc.Signup(ctx, "amara", "one", "two")
		assert.ErrorIs(t, err, ErrPasswordMismatch)
		assert.Empty(t, store.users)
	})

	t.Run("duplicate username", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store, store, time.Hour)

		require.NoError(t, svc.Signup(ctx, "amara", "pw", "pw"))
		err := svc.Signup(ctx, "amara", "pw", "pw")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("stores hash not plaintext", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store, store, time.Hour)

		require.NoError(t, svc.Signup(ctx, "amara", "pw", "pw"))
		u := store.users["amara"]
		require.NotNil(t, u)
		assert.NotEqual(t, "pw", u.PasswordHash)
		assert.True(t, CheckPassword("pw", u.PasswordHash))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown username establishes no session", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store, store, time.Hour)

		_, _, err := svc.Login(ctx, "ghost", "pw")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, store.sessions)
	})

	t.Run("wrong password", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store, store, time.Hour)
		require.NoError(t, svc.Signup(ctx, "amara", "pw", "pw"))

		_, _, err := svc.Login(ctx, "amara", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, store.sessions)
	})

	t.Run("success resolves until logout", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store, store, time.Hour)
		require.NoError(t, svc.Signup(ctx, "amara", "pw", "pw"))

		user, token, err := svc.Login(ctx, "amara", "pw")
		require.NoError(t, err)
		assert.Equal(t, "amara", user.Username)
		require.NotEmpty(t, token)

		resolved, err := svc.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)

		require.NoError(t, svc.Logout(ctx, token))
		_, err = svc.Resolve(ctx, token)
		assert.ErrorIs(t, err, ErrNoSession)
	})
}

func TestResolveEmptyToken(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, store, time.Hour)

	_, err := svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)
}
