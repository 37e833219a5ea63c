// Package transactionservice manages the business logic layer of ledger transactions.
package transactionservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tinyledger/tinyledger/internal/domain"
	"github.com/tinyledger/tinyledger/internal/events"
	"github.com/tinyledger/tinyledger/pkg/errorspkg"
	"github.com/tinyledger/tinyledger/pkg/lockpkg"
)

// AccountRepo provides the account data access capabilities needed by the
// transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type AccountRepo interface {
	Get(ctx context.Context, id int32) (domain.Account, error)
	UpdateBalance(ctx context.Context, id int32, balance decimal.Decimal) (domain.Account, error)
}

// EntryRepo provides the entry data access capabilities needed by the
// transaction service layer.
type EntryRepo interface {
	Create(ctx context.Context, accountID int32, amount decimal.Decimal, description string) (domain.Entry, error)
	ListByAccount(ctx context.Context, accountID int32) ([]domain.Entry, error)
}

// Service facilitates transaction service layer logic.
//
// Every balance mutation holds the account's lock for the whole
// read-check-write sequence, so concurrent operations on the same account
// are serialized and the balance can never go negative.
type Service struct {
	accounts AccountRepo
	entries  EntryRepo
	locks    *lockpkg.KeyedMutex
	events   events.Publisher
}

// New returns transaction service struct to manage transaction business logic.
func New(ar AccountRepo, er EntryRepo, locks *lockpkg.KeyedMutex, pub events.Publisher) *Service {
	return &Service{
		accounts: ar,
		entries:  er,
		locks:    locks,
		events:   pub,
	}
}

// rollbackAttempts bounds retries of the balance restore that runs when the
// entry write fails after the balance was already updated.
const rollbackAttempts = 3

// Withdraw deducts amount from the account and records one ledger entry
// with a negative amount. It fails with an invalid-operation error when the
// account balance is insufficient, leaving the account and ledger untouched.
func (s *Service) Withdraw(ctx context.Context, accountID int32, amount decimal.Decimal, description string) (domain.Entry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Entry{}, errorspkg.InvalidOperationf("amount must be positive")
	}

	s.locks.Lock(accountID)
	defer s.locks.Unlock(accountID)

	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return domain.Entry{}, err
	}

	if account.Balance.LessThan(amount) {
		return domain.Entry{}, errorspkg.InvalidOperationf("insufficient funds")
	}

	if _, err := s.accounts.UpdateBalance(ctx, accountID, account.Balance.Sub(amount)); err != nil {
		return domain.Entry{}, err
	}

	entry, err := s.entries.Create(ctx, accountID, amount.Neg(), description)
	if err != nil {
		s.rollbackBalance(ctx, accountID, account.Balance)
		return domain.Entry{}, err
	}

	s.publish(ctx, entry)

	return entry, nil
}

// Deposit adds amount to the account and records one ledger entry with a
// positive amount. There is no upper bound on the amount.
func (s *Service) Deposit(ctx context.Context, accountID int32, amount decimal.Decimal, description string) (domain.Entry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Entry{}, errorspkg.InvalidOperationf("amount must be positive")
	}

	s.locks.Lock(accountID)
	defer s.locks.Unlock(accountID)

	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return domain.Entry{}, err
	}

	if _, err := s.accounts.UpdateBalance(ctx, accountID, account.Balance.Add(amount)); err != nil {
		return domain.Entry{}, err
	}

	entry, err := s.entries.Create(ctx, accountID, amount, description)
	if err != nil {
		s.rollbackBalance(ctx, accountID, account.Balance)
		return domain.Entry{}, err
	}

	s.publish(ctx, entry)

	return entry, nil
}

// ListByAccount returns all entries of the account ordered by creation time
// ascending. The account is resolved first for existence validation only.
func (s *Service) ListByAccount(ctx context.Context, accountID int32) ([]domain.Entry, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}

	return s.entries.ListByAccount(ctx, accountID)
}

func (s *Service) rollbackBalance(ctx context.Context, accountID int32, balance decimal.Decimal) {
	l := zerolog.Ctx(ctx)

	for attempt := 1; attempt <= rollbackAttempts; attempt++ {
		_, err := s.accounts.UpdateBalance(ctx, accountID, balance)
		if err == nil {
			return
		}

		l.Warn().Err(err).
			Int32("account_id", accountID).
			Int("attempt", attempt).
			Msg("balance rollback failed")
	}

	l.Error().
		Int32("account_id", accountID).
		Str("balance", balance.String()).
		Msg("balance rollback exhausted: account balance is inconsistent")
}

func (s *Service) publish(ctx context.Context, entry domain.Entry) {
	event := events.TransactionCompleted{
		EntryID:     entry.ID,
		AccountID:   entry.AccountID,
		Amount:      entry.Amount,
		Description: entry.Description,
		CreatedAt:   entry.CreatedAt,
	}

	// Best effort: event delivery never fails the operation.
	if err := s.events.Publish(ctx, event); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("entry_id", entry.ID).Msg("publish transaction completed")
	}
}
