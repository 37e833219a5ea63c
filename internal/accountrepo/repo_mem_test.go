package accountrepo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tinyledger/tinyledger/pkg/errorspkg"
	"github.com/tinyledger/tinyledger/pkg/randompkg"
)

func TestCreate(t *testing.T) {
	repo := NewRepoMem()
	name := randompkg.Name()

	account, err := repo.Create(context.Background(), name)
	require.NoError(t, err)

	require.Equal(t, name, account.Name)
	require.True(t, account.Balance.IsZero())
	require.NotZero(t, account.ID)
	require.NotZero(t, account.CreatedAt)
}

func TestCreateDuplicateName(t *testing.T) {
	repo := NewRepoMem()
	name := randompkg.Name()

	_, err := repo.Create(context.Background(), name)
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), name)
	require.Equal(t, errorspkg.KindAlreadyExists, errorspkg.KindOf(err))
}

func TestGet(t *testing.T) {
	repo := NewRepoMem()

	created, err := repo.Create(context.Background(), randompkg.Name())
	require.NoError(t, err)

	got, err := repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestGetNotFound(t *testing.T) {
	repo := NewRepoMem()

	_, err := repo.Get(context.Background(), 99)
	require.Equal(t, errorspkg.KindNotFound, errorspkg.KindOf(err))
	require.EqualError(t, err, "account with id '99' not found")
}

func TestUpdateBalance(t *testing.T) {
	repo := NewRepoMem()

	created, err := repo.Create(context.Background(), randompkg.Name())
	require.NoError(t, err)

	balance := decimal.NewFromInt(1000)

	updated, err := repo.UpdateBalance(context.Background(), created.ID, balance)
	require.NoError(t, err)
	require.True(t, balance.Equal(updated.Balance))

	got, err := repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, balance.Equal(got.Balance))
}

func TestUpdateBalanceNotFound(t *testing.T) {
	repo := NewRepoMem()

	_, err := repo.UpdateBalance(context.Background(), 99, decimal.NewFromInt(1))
	require.Equal(t, errorspkg.KindNotFound, errorspkg.KindOf(err))
}
