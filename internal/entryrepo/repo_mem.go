package entryrepo

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tinyledger/tinyledger/internal/domain"
	"github.com/tinyledger/tinyledger/pkg/memtable"
)

// RepoMem is an in-memory entry repository. It is safe for concurrent use.
type RepoMem struct {
	table *memtable.Table[domain.Entry]
}

// NewRepoMem returns an empty in-memory entry repository.
func NewRepoMem() *RepoMem {
	return &RepoMem{table: memtable.New[domain.Entry]()}
}

// Create creates the entry and then returns it.
func (r *RepoMem) Create(ctx context.Context, accountID int32, amount decimal.Decimal, description string) (domain.Entry, error) {
	entry := r.table.Insert(func(id int64) domain.Entry {
		return domain.Entry{
			ID:          id,
			AccountID:   accountID,
			Amount:      amount,
			Description: description,
			CreatedAt:   time.Now().UTC(),
		}
	})

	return entry, nil
}

// ListByAccount returns all entries for the given account ordered by
// creation time ascending, id breaking ties.
func (r *RepoMem) ListByAccount(ctx context.Context, accountID int32) ([]domain.Entry, error) {
	items := r.table.All(func(e domain.Entry) bool { return e.AccountID == accountID })

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}

		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	return items, nil
}
