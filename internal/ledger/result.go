package ledger

import "github.com/shopspring/decimal"

// Result is the immutable snapshot produced by aggregating all
// transactions of one account.
type Result struct {
	balance decimal.Decimal
	shares  map[int64]decimal.Decimal
}

// Balance returns the current balance of the account.
func (r *Result) Balance() decimal.Decimal {
	return r.balance
}

// SharesOf returns the current count of shares held for the stock,
// or zero if the account holds none.
func (r *Result) SharesOf(stockID int64) decimal.Decimal {
	if count, ok := r.shares[stockID]; ok {
		return count
	}
	return decimal.Zero
}

// StockShares returns the per-stock share counts as a copy, so the
// snapshot stays immutable.
func (r *Result) StockShares() map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal, len(r.shares))
	for id, count := range r.shares {
		out[id] = count
	}
	return out
}
