// Package ledger reconstructs the current state of an account by
// folding its full transaction history into a balance and per-stock
// share counts.
package ledger

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/avogel/papertrade/internal/models"
)

// ErrNilTransaction is returned when a required transaction record or
// sequence is absent. It signals a programming-contract violation and
// is never retried.
var ErrNilTransaction = errors.New("ledger: nil transaction")

// Item is the uniform representation every transaction record is
// mapped to before aggregation. It carries the change to the balance
// and, for trades, the change to the share count of one stock.
// Items are transient and never persisted.
type Item struct {
	balanceDelta decimal.Decimal
	stockID      *int64
	sharesDelta  decimal.Decimal
}

// Apply applies the changes caused by this item to the accumulator.
func (it Item) Apply(acc *Accumulator) {
	acc.ChangeBalance(it.balanceDelta)

	// Only trades carry a stock reference.
	if it.stockID != nil {
		acc.ChangeShares(*it.stockID, it.sharesDelta)
	}
}

// MapCash maps a cash transaction to an aggregation item: the full
// amount is applied to the balance and no shares change hands.
func MapCash(tx *models.CashTransaction) (Item, error) {
	if tx == nil {
		return Item{}, ErrNilTransaction
	}

	return Item{balanceDelta: tx.Amount}, nil
}

// MapStock maps a stock transaction to an aggregation item. Acquiring
// shares consumes cash, so the balance delta is the negated cost of
// the trade; a sell (negative SharesCount) returns cash.
func MapStock(tx *models.StockTransaction) (Item, error) {
	if tx == nil {
		return Item{}, ErrNilTransaction
	}

	stockID := tx.StockID
	return Item{
		balanceDelta: tx.SharesCount.Mul(tx.ShareValue).Neg(),
		stockID:      &stockID,
		sharesDelta:  tx.SharesCount,
	}, nil
}
