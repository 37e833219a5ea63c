// Package domain provides definitions of all entities.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds the current balance for a named holder.
//
// The ID is assigned by the repository on creation and is immutable.
// Name is unique across all accounts (exact, case-sensitive match).
// Balance is never negative after a successfully completed operation.
type Account struct {
	ID        int32           `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}
