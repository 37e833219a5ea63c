package transactionservice

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tinyledger/tinyledger/internal/accountrepo"
	"github.com/tinyledger/tinyledger/internal/domain"
	"github.com/tinyledger/tinyledger/internal/entryrepo"
	"github.com/tinyledger/tinyledger/internal/events"
	"github.com/tinyledger/tinyledger/pkg/errorspkg"
	"github.com/tinyledger/tinyledger/pkg/lockpkg"
	"github.com/tinyledger/tinyledger/pkg/randompkg"
)

func testAccount(id int32, balance decimal.Decimal) domain.Account {
	return domain.Account{
		ID:        id,
		Name:      randompkg.Name(),
		Balance:   balance,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

func newTestService(t *testing.T) (*Service, *MockAccountRepo, *MockEntryRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	accounts := NewMockAccountRepo(ctrl)
	entries := NewMockEntryRepo(ctrl)

	return New(accounts, entries, lockpkg.NewKeyedMutex(), events.Noop{}), accounts, entries
}

func TestWithdraw(t *testing.T) {
	balance := decimal.NewFromInt(1000)
	amount := decimal.NewFromInt(100)
	account := testAccount(1, balance)

	wantEntry := domain.Entry{
		ID:          1,
		AccountID:   account.ID,
		Amount:      amount.Neg(),
		Description: "rent",
	}

	testCases := []struct {
		name          string
		amount        decimal.Decimal
		buildStubs    func(accounts *MockAccountRepo, entries *MockEntryRepo)
		checkResponse func(entry domain.Entry, err error)
	}{
		{
			name:   "OK",
			amount: amount,
			buildStubs: func(accounts *MockAccountRepo, entries *MockEntryRepo) {
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(account, nil)
				accounts.EXPECT().UpdateBalance(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(balance.Sub(amount))).
					Times(1).
					Return(account, nil)
				entries.EXPECT().Create(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(amount.Neg()), gomock.Eq("rent")).
					Times(1).
					Return(wantEntry, nil)
			},
			checkResponse: func(entry domain.Entry, err error) {
				require.NoError(t, err)
				require.Equal(t, wantEntry, entry)
			},
		},
		{
			name:   "InsufficientFunds",
			amount: balance.Add(decimal.NewFromInt(1)),
			buildStubs: func(accounts *MockAccountRepo, entries *MockEntryRepo) {
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(account, nil)
				accounts.EXPECT().UpdateBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				entries.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(entry domain.Entry, err error) {
				require.Equal(t, errorspkg.KindInvalidOperation, errorspkg.KindOf(err))
				require.EqualError(t, err, "insufficient funds")
				require.Empty(t, entry)
			},
		},
		{
			name:   "NonPositiveAmount",
			amount: decimal.Zero,
			buildStubs: func(accounts *MockAccountRepo, entries *MockEntryRepo) {
				accounts.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(entry domain.Entry, err error) {
				require.Equal(t, errorspkg.KindInvalidOperation, errorspkg.KindOf(err))
				require.Empty(t, entry)
			},
		},
		{
			name:   "AccountNotFound",
			amount: amount,
			buildStubs: func(accounts *MockAccountRepo, entries *MockEntryRepo) {
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(domain.Account{}, errorspkg.NotFoundf("account with id '%d' not found", account.ID))
				entries.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(entry domain.Entry, err error) {
				require.Equal(t, errorspkg.KindNotFound, errorspkg.KindOf(err))
				require.Empty(t, entry)
			},
		},
		{
			name:   "EntryCreateFailsRollsBackBalance",
			amount: amount,
			buildStubs: func(accounts *MockAccountRepo, entries *MockEntryRepo) {
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(account, nil)
				accounts.EXPECT().UpdateBalance(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(balance.Sub(amount))).
					Times(1).
					Return(account, nil)
				entries.EXPECT().Create(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(amount.Neg()), gomock.Eq("rent")).
					Times(1).
					Return(domain.Entry{}, errorspkg.ErrInternal)
				accounts.EXPECT().UpdateBalance(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(balance)).
					Times(1).
					Return(account, nil)
			},
			checkResponse: func(entry domain.Entry, err error) {
				require.ErrorIs(t, err, errorspkg.ErrInternal)
				require.Empty(t, entry)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			service, accounts, entries := newTestService(t)
			tc.buildStubs(accounts, entries)

			entry, err := service.Withdraw(context.Background(), account.ID, tc.amount, "rent")
			tc.checkResponse(entry, err)
		})
	}
}

func TestDeposit(t *testing.T) {
	balance := decimal.NewFromInt(1000)
	amount := decimal.NewFromInt(250)
	account := testAccount(1, balance)

	wantEntry := domain.Entry{
		ID:          1,
		AccountID:   account.ID,
		Amount:      amount,
		Description: "seed",
	}

	testCases := []struct {
		name          string
		amount        decimal.Decimal
		buildStubs    func(accounts *MockAccountRepo, entries *MockEntryRepo)
		checkResponse func(entry domain.Entry, err error)
	}{
		{
			name:   "OK",
			amount: amount,
			buildStubs: func(accounts *MockAccountRepo, entries *MockEntryRepo) {
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(account, nil)
				accounts.EXPECT().UpdateBalance(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(balance.Add(amount))).
					Times(1).
					Return(account, nil)
				entries.EXPECT().Create(gomock.Any(), gomock.Eq(account.ID), gomock.Eq(amount), gomock.Eq("seed")).
					Times(1).
					Return(wantEntry, nil)
			},
			checkResponse: func(entry domain.Entry, err error) {
				require.NoError(t, err)
				require.Equal(t, wantEntry, entry)
			},
		},
		{
			name:   "NegativeAmount",
			amount: decimal.NewFromInt(-1),
			buildStubs: func(accounts *MockAccountRepo, entries *MockEntryRepo) {
				accounts.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(entry domain.Entry, err error) {
				require.Equal(t, errorspkg.KindInvalidOperation, errorspkg.KindOf(err))
				require.Empty(t, entry)
			},
		},
		{
			name:   "AccountNotFound",
			amount: amount,
			buildStubs: func(accounts *MockAccountRepo, entries *MockEntryRepo) {
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(domain.Account{}, errorspkg.NotFoundf("account with id '%d' not found", account.ID))
			},
			checkResponse: func(entry domain.Entry, err error) {
				require.Equal(t, errorspkg.KindNotFound, errorspkg.KindOf(err))
				require.Empty(t, entry)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			service, accounts, entries := newTestService(t)
			tc.buildStubs(accounts, entries)

			entry, err := service.Deposit(context.Background(), account.ID, tc.amount, "seed")
			tc.checkResponse(entry, err)
		})
	}
}

func TestListByAccount(t *testing.T) {
	account := testAccount(1, decimal.NewFromInt(1000))
	wantEntries := []domain.Entry{
		{ID: 1, AccountID: account.ID, Amount: decimal.NewFromInt(1000), Description: "seed"},
		{ID: 2, AccountID: account.ID, Amount: decimal.NewFromInt(-100), Description: "rent"},
	}

	t.Run("OK", func(t *testing.T) {
		service, accounts, entries := newTestService(t)

		accounts.EXPECT().Get(gomock.Any(), gomock.Eq(account.ID)).
			Times(1).
			Return(account, nil)
		entries.EXPECT().ListByAccount(gomock.Any(), gomock.Eq(account.ID)).
			Times(1).
			Return(wantEntries, nil)

		got, err := service.ListByAccount(context.Background(), account.ID)
		require.NoError(t, err)
		require.Equal(t, wantEntries, got)
	})

	t.Run("AccountNotFound", func(t *testing.T) {
		service, accounts, entries := newTestService(t)

		accounts.EXPECT().Get(gomock.Any(), gomock.Eq(int32(99))).
			Times(1).
			Return(domain.Account{}, errorspkg.NotFoundf("account with id '%d' not found", 99))
		entries.EXPECT().ListByAccount(gomock.Any(), gomock.Any()).Times(0)

		_, err := service.ListByAccount(context.Background(), 99)
		require.Equal(t, errorspkg.KindNotFound, errorspkg.KindOf(err))
	})
}

// TestConcurrentWithdrawals runs the service against the real in-memory
// repositories: out of many concurrent withdrawals whose sum exceeds the
// balance, exactly the subset that fits must be accepted.
func TestConcurrentWithdrawals(t *testing.T) {
	ctx := context.Background()

	accounts := accountrepo.NewRepoMem()
	entries := entryrepo.NewRepoMem()
	service := New(accounts, entries, lockpkg.NewKeyedMutex(), events.Noop{})

	account, err := accounts.Create(ctx, randompkg.Name())
	require.NoError(t, err)

	_, err = accounts.UpdateBalance(ctx, account.ID, decimal.NewFromInt(500))
	require.NoError(t, err)

	const goroutines = 10

	amount := decimal.NewFromInt(100)
	errs := make([]error, goroutines)

	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, errs[i] = service.Withdraw(ctx, account.ID, amount, "concurrent")
		}(i)
	}

	wg.Wait()

	succeeded := 0

	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}

		require.Equal(t, errorspkg.KindInvalidOperation, errorspkg.KindOf(err))
	}

	require.Equal(t, 5, succeeded)

	got, err := accounts.Get(ctx, account.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.IsZero())

	items, err := entries.ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, items, 5)
}
