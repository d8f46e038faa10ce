package account

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avogel/papertrade/internal/common"
	"github.com/avogel/papertrade/internal/storage/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Manager) {
	t.Helper()
	store := memory.NewManager()
	svc := NewService(store.AccountStore(), store.TransactionStore(), decimal.NewFromInt(10000), common.NewSilentLogger())
	return svc, store
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	acct, err := svc.CreateAccount(ctx, "test@test.de", "secret")
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.NotZero(t, acct.ID)
	assert.Equal(t, "test@test.de", acct.Email)
	assert.NotEmpty(t, acct.PasswordHash)
	assert.NotEmpty(t, acct.PasswordSalt)
}

func TestCreateAccount_RecordsInitialBalance(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	acct, err := svc.CreateAccount(ctx, "test@test.de", "secret")
	require.NoError(t, err)

	cash, err := store.TransactionStore().CashTransactionsByAccount(ctx, acct.ID)
	require.NoError(t, err)
	require.Len(t, cash, 1)
	assert.True(t, cash[0].Amount.Equal(decimal.NewFromInt(10000)), "grant should be 10000, got %s", cash[0].Amount)
	assert.Equal(t, "Initial", cash[0].Comment)
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.CreateAccount(ctx, "test@test.de", "secret")
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, "test@test.de", "other")
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestCreateAccount_DuplicateEmailDifferentCase(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.CreateAccount(ctx, "test@test.de", "secret")
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, "Test@Test.de", "other")
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestCheckPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.CreateAccount(ctx, "test@test.de", "secret")
	require.NoError(t, err)

	ok, err := svc.CheckPassword(ctx, "test@test.de", "secret")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.CreateAccount(ctx, "test@test.de", "secret")
	require.NoError(t, err)

	ok, err := svc.CheckPassword(ctx, "test@test.de", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPassword_UnknownEmailIsPlainFailure(t *testing.T) {
	svc, _ := newTestService(t)

	ok, err := svc.CheckPassword(context.Background(), "nobody@test.de", "secret")
	require.NoError(t, err, "unknown accounts must not be distinguishable from a wrong password")
	assert.False(t, ok)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	acct, err := svc.CreateAccount(ctx, "test@test.de", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, acct.ID, "changed"))

	ok, err := svc.CheckPassword(ctx, "test@test.de", "changed")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckPassword(ctx, "test@test.de", "secret")
	require.NoError(t, err)
	assert.False(t, ok, "old password must no longer match")
}

func TestChangePassword_UnknownAccount(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.ChangePassword(context.Background(), 42, "changed")
	assert.Error(t, err)
}

func TestGetByEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreateAccount(ctx, "test@test.de", "secret")
	require.NoError(t, err)

	found, err := svc.GetByEmail(ctx, "test@test.de")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestGetByEmail_Unknown(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByEmail(context.Background(), "nobody@test.de")
	assert.ErrorIs(t, err, ErrEmailNotRegistered)
}
