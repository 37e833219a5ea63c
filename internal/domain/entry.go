package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one immutable record of a balance-changing event.
//
// Amount is signed: negative for withdrawals, positive for deposits.
// Entries are created exactly once per successful withdraw or deposit
// and are never updated or deleted.
type Entry struct {
	ID          int64           `json:"id"`
	AccountID   int32           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TransferResult holds both sides of a completed transfer.
type TransferResult struct {
	FromAccount Account `json:"from_account"`
	ToAccount   Account `json:"to_account"`
	FromEntry   Entry   `json:"from_entry"`
	ToEntry     Entry   `json:"to_entry"`
}
