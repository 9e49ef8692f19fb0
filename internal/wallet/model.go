package wallet

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is a balance-bearing account exclusively controlled by its owner.
// OwnerID never changes after creation and Balance only moves through
// Tx.Increment and Tx.Decrement.
type Wallet struct {
	ID        int64
	OwnerID   int64
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaxBalance is the largest balance the NUMERIC(9,2) wallets.balance column holds.
var MaxBalance = decimal.RequireFromString("9999999.99")

// ErrBalanceOverflow is returned by the in-memory store when an increment
// would exceed MaxBalance. Postgres reports a numeric overflow instead.
var ErrBalanceOverflow = errors.New("wallet balance out of range")
