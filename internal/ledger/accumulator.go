package ledger

import "github.com/shopspring/decimal"

// Accumulator is the mutable fold state of one aggregation run. It is
// created empty, receives the deltas of every item, and is consumed by
// Finalize. It is confined to a single run and never shared.
type Accumulator struct {
	balance decimal.Decimal
	shares  map[int64]decimal.Decimal
}

// NewAccumulator creates an empty accumulator to start aggregating.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		balance: decimal.Zero,
		shares:  make(map[int64]decimal.Decimal),
	}
}

// ChangeBalance applies a change to the current balance; the change
// can be negative.
func (a *Accumulator) ChangeBalance(change decimal.Decimal) {
	a.balance = a.balance.Add(change)
}

// ChangeShares applies a change to the share count held for a stock,
// initializing the count to zero on first touch. The change can be
// negative.
func (a *Accumulator) ChangeShares(stockID int64, change decimal.Decimal) {
	current, ok := a.shares[stockID]
	if !ok {
		current = decimal.Zero
	}
	a.shares[stockID] = current.Add(change)
}

// Finalize transforms the current state into an immutable Result.
// The accumulator hands its share map over to the result and must not
// be used afterwards.
func (a *Accumulator) Finalize() *Result {
	result := &Result{
		balance: a.balance,
		shares:  a.shares,
	}
	a.shares = nil
	return result
}
