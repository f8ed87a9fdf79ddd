package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccountService(t *testing.T) *LocalAccountService {
	t.Helper()
	svc, err := NewLocalAccountService(t.TempDir())
	require.NoError(t, err)
	return svc
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, "Jenna@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "jenna@example.com", account.Email)
	assert.Equal(t, "password", account.Provider)
	assert.NotEqual(t, "secret123", account.PasswordHash)

	got, err := svc.Authenticate(ctx, "jenna@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = svc.Authenticate(ctx, "jenna@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "jenna@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "JENNA@example.com", "other456")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestEnsureFederatedIsIdempotent(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	account, created, err := svc.EnsureFederated(ctx, "firebase-uid-1", "jenna@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "firebase-uid-1", account.ID)
	assert.Equal(t, "google", account.Provider)

	again, created, err := svc.EnsureFederated(ctx, "firebase-uid-1", "jenna@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, account.ID, again.ID)
}

func TestGetByIDReturnsCopy(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, "jenna@example.com", "secret123")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, account.ID)
	require.NoError(t, err)
	got.Email = "mutated@example.com"

	again, err := svc.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "jenna@example.com", again.Email)
}

func TestDeleteAccount(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, "jenna@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, account.ID))

	_, err = svc.GetByID(ctx, account.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	// Email is free again.
	_, err = svc.Register(ctx, "jenna@example.com", "secret123")
	require.NoError(t, err)
}
