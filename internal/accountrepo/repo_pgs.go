// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tinyledger/tinyledger/internal/domain"
	"github.com/tinyledger/tinyledger/pkg/dbpkg"
	"github.com/tinyledger/tinyledger/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic backed by Postgres.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    accounts (name, balance)
VALUES
    ($1, 0)
RETURNING id, name, balance, created_at
`

// Create creates an account with zero balance and then returns it.
// Name uniqueness is enforced by the accounts_name_key constraint.
func (r *RepoPGS) Create(ctx context.Context, name string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, name)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_name_key" {
				return a, errorspkg.AlreadyExistsf("account with name '%s' already exists", name)
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	id, name, balance, created_at
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, errorspkg.NotFoundf("account with id '%d' not found", id)
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const updateBalanceQuery = `
UPDATE accounts
SET balance = $1
WHERE id = $2
RETURNING id, name, balance, created_at
`

// UpdateBalance persists the given balance on the account and returns the
// account reflecting the write. The accounts_balance_check constraint is a
// storage-level backstop against overdrafts.
func (r *RepoPGS) UpdateBalance(ctx context.Context, id int32, balance decimal.Decimal) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateBalanceQuery, balance, id)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, errorspkg.NotFoundf("account with id '%d' not found", id)
		}

		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, errorspkg.InvalidOperationf("insufficient funds")
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}
