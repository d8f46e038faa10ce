package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashTransaction is a ledger entry that changes the balance of an
// account without an associated trade, for example the initial grant
// a new account starts with. Entries are append-only: once recorded
// they are never mutated or deleted.
type CashTransaction struct {
	ID        int64           `json:"id" badgerhold:"key"`
	AccountID int64           `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"` // signed
	Comment   string          `json:"comment"`
	Timestamp time.Time       `json:"timestamp"`
}

// StockTransaction is a ledger entry recording a buy or sell of shares.
// SharesCount is positive for buys and negative for sells; ShareValue
// is the per-share price at execution time and is always positive.
// Entries are append-only.
type StockTransaction struct {
	ID          int64           `json:"id" badgerhold:"key"`
	AccountID   int64           `json:"account_id"`
	StockID     int64           `json:"stock_id"`
	SharesCount decimal.Decimal `json:"shares_count"`
	ShareValue  decimal.Decimal `json:"share_value"`
	Timestamp   time.Time       `json:"timestamp"`
}
