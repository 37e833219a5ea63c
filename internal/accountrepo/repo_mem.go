package accountrepo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tinyledger/tinyledger/internal/domain"
	"github.com/tinyledger/tinyledger/pkg/errorspkg"
	"github.com/tinyledger/tinyledger/pkg/memtable"
)

// RepoMem is an in-memory account repository. It is safe for concurrent use.
type RepoMem struct {
	table *memtable.Table[domain.Account]
}

// NewRepoMem returns an empty in-memory account repository.
func NewRepoMem() *RepoMem {
	return &RepoMem{table: memtable.New[domain.Account]()}
}

// Create creates an account with zero balance and then returns it.
// The name conflict check and the insert are a single atomic step.
func (r *RepoMem) Create(ctx context.Context, name string) (domain.Account, error) {
	account, ok := r.table.InsertIf(
		func(a domain.Account) bool { return a.Name == name },
		func(id int64) domain.Account {
			return domain.Account{
				ID:        int32(id),
				Name:      name,
				Balance:   decimal.Zero,
				CreatedAt: time.Now().UTC(),
			}
		},
	)
	if !ok {
		return domain.Account{}, errorspkg.AlreadyExistsf("account with name '%s' already exists", name)
	}

	return account, nil
}

// Get returns the account with the given id.
func (r *RepoMem) Get(ctx context.Context, id int32) (domain.Account, error) {
	account, ok := r.table.Get(int64(id))
	if !ok {
		return domain.Account{}, errorspkg.NotFoundf("account with id '%d' not found", id)
	}

	return account, nil
}

// UpdateBalance persists the given balance on the account and returns the
// account reflecting the write.
func (r *RepoMem) UpdateBalance(ctx context.Context, id int32, balance decimal.Decimal) (domain.Account, error) {
	account, ok := r.table.Get(int64(id))
	if !ok {
		return domain.Account{}, errorspkg.NotFoundf("account with id '%d' not found", id)
	}

	account.Balance = balance
	if !r.table.Update(int64(id), account) {
		return domain.Account{}, errorspkg.ErrInternal
	}

	return account, nil
}
