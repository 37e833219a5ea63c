// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tinyledger/tinyledger/internal/domain"
	"github.com/tinyledger/tinyledger/pkg/errorspkg"
)

// Repo provides the account data access capabilities needed by the account
// service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, name string) (domain.Account, error)
	Get(ctx context.Context, id int32) (domain.Account, error)
}

// TransactionService provides the balance mutation operations that transfers
// are composed of.
type TransactionService interface {
	Withdraw(ctx context.Context, accountID int32, amount decimal.Decimal, description string) (domain.Entry, error)
	Deposit(ctx context.Context, accountID int32, amount decimal.Decimal, description string) (domain.Entry, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo         Repo
	transactions TransactionService
}

// New returns account service struct to manage account business logic.
func New(r Repo, ts TransactionService) *Service {
	return &Service{
		repo:         r,
		transactions: ts,
	}
}

// Create creates an account with zero balance for the given name.
// It fails with an already-exists error when the name is taken.
func (s *Service) Create(ctx context.Context, name string) (domain.Account, error) {
	return s.repo.Create(ctx, name)
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id int32) (domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// compensationAttempts bounds retries of the re-deposit that restores the
// source balance when the deposit leg of a transfer fails.
const compensationAttempts = 3

// Transfer moves amount from one account to another via a withdraw and a
// deposit, in that order. If the deposit leg fails the withdrawn amount is
// automatically re-deposited to the source account, so that either both
// balance mutations persist or neither does.
func (s *Service) Transfer(ctx context.Context, fromID, toID int32, amount decimal.Decimal) (domain.TransferResult, error) {
	var result domain.TransferResult

	if fromID == toID {
		return result, errorspkg.InvalidOperationf("accounts cannot be the same")
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return result, errorspkg.InvalidOperationf("amount must be positive")
	}

	from, err := s.repo.Get(ctx, fromID)
	if err != nil {
		return result, err
	}

	to, err := s.repo.Get(ctx, toID)
	if err != nil {
		return result, err
	}

	fromEntry, err := s.transactions.Withdraw(ctx, fromID, amount,
		fmt.Sprintf("Transfer to account '%d' (%s)", to.ID, to.Name))
	if err != nil {
		return result, err
	}

	toEntry, err := s.transactions.Deposit(ctx, toID, amount,
		fmt.Sprintf("Transfer from account '%d' (%s)", from.ID, from.Name))
	if err != nil {
		if cerr := s.compensate(ctx, fromID, toID, amount); cerr != nil {
			return result, cerr
		}

		return result, err
	}

	result.FromEntry = fromEntry
	result.ToEntry = toEntry

	if result.FromAccount, err = s.repo.Get(ctx, fromID); err != nil {
		return result, err
	}

	if result.ToAccount, err = s.repo.Get(ctx, toID); err != nil {
		return result, err
	}

	return result, nil
}

// compensate re-deposits the withdrawn amount to the source account after a
// failed deposit leg. Exhausting the retries leaves the ledger
// inconsistent, which is escalated as a consistency alarm.
func (s *Service) compensate(ctx context.Context, fromID, toID int32, amount decimal.Decimal) error {
	l := zerolog.Ctx(ctx)

	description := fmt.Sprintf("Transfer compensation: deposit to account '%d' failed", toID)

	for attempt := 1; attempt <= compensationAttempts; attempt++ {
		_, err := s.transactions.Deposit(ctx, fromID, amount, description)
		if err == nil {
			return nil
		}

		l.Warn().Err(err).
			Int32("from_account_id", fromID).
			Int("attempt", attempt).
			Msg("transfer compensation failed")
	}

	l.Error().
		Int32("from_account_id", fromID).
		Int32("to_account_id", toID).
		Str("amount", amount.String()).
		Msg("transfer compensation exhausted: account balance is inconsistent")

	return errorspkg.ErrInternal
}
