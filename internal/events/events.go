// Package events defines the ledger's outbound event contract.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCompleted is emitted after every successful withdraw or deposit.
type TransactionCompleted struct {
	EntryID     int64           `json:"entry_id"`
	AccountID   int32           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Publisher publishes ledger events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event TransactionCompleted) error
}

// Noop discards events. It is used when no broker is configured.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, TransactionCompleted) error {
	return nil
}
