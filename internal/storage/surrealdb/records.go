package surrealdb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avogel/papertrade/internal/models"
)

// Record types mirror the entity models with decimals stored as
// strings so amounts survive the wire encoding without rounding.

type accountRecord struct {
	EntityID     int64     `json:"entity_id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"password_hash"`
	PasswordSalt []byte    `json:"password_salt"`
	CreatedAt    time.Time `json:"created_at"`
}

func newAccountRecord(account *models.Account) accountRecord {
	return accountRecord{
		EntityID:     account.ID,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		PasswordSalt: account.PasswordSalt,
		CreatedAt:    account.CreatedAt,
	}
}

func (r accountRecord) toModel() *models.Account {
	return &models.Account{
		ID:           r.EntityID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		PasswordSalt: r.PasswordSalt,
		CreatedAt:    r.CreatedAt,
	}
}

type stockRecord struct {
	EntityID int64  `json:"entity_id"`
	ISIN     string `json:"isin"`
	Name     string `json:"name"`
}

func newStockRecord(stock *models.Stock) stockRecord {
	return stockRecord{
		EntityID: stock.ID,
		ISIN:     stock.ISIN,
		Name:     stock.Name,
	}
}

func (r stockRecord) toModel() *models.Stock {
	return &models.Stock{
		ID:   r.EntityID,
		ISIN: r.ISIN,
		Name: r.Name,
	}
}

type cashTransactionRecord struct {
	EntityID  int64     `json:"entity_id"`
	AccountID int64     `json:"account_id"`
	Amount    string    `json:"amount"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

func newCashTransactionRecord(tx *models.CashTransaction) cashTransactionRecord {
	return cashTransactionRecord{
		EntityID:  tx.ID,
		AccountID: tx.AccountID,
		Amount:    tx.Amount.String(),
		Comment:   tx.Comment,
		Timestamp: tx.Timestamp,
	}
}

func (r cashTransactionRecord) toModel() (*models.CashTransaction, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return nil, fmt.Errorf("cash transaction %d has invalid amount %q: %w", r.EntityID, r.Amount, err)
	}
	return &models.CashTransaction{
		ID:        r.EntityID,
		AccountID: r.AccountID,
		Amount:    amount,
		Comment:   r.Comment,
		Timestamp: r.Timestamp,
	}, nil
}

type stockTransactionRecord struct {
	EntityID    int64     `json:"entity_id"`
	AccountID   int64     `json:"account_id"`
	StockID     int64     `json:"stock_id"`
	SharesCount string    `json:"shares_count"`
	ShareValue  string    `json:"share_value"`
	Timestamp   time.Time `json:"timestamp"`
}

func newStockTransactionRecord(tx *models.StockTransaction) stockTransactionRecord {
	return stockTransactionRecord{
		EntityID:    tx.ID,
		AccountID:   tx.AccountID,
		StockID:     tx.StockID,
		SharesCount: tx.SharesCount.String(),
		ShareValue:  tx.ShareValue.String(),
		Timestamp:   tx.Timestamp,
	}
}

func (r stockTransactionRecord) toModel() (*models.StockTransaction, error) {
	sharesCount, err := decimal.NewFromString(r.SharesCount)
	if err != nil {
		return nil, fmt.Errorf("stock transaction %d has invalid shares count %q: %w", r.EntityID, r.SharesCount, err)
	}
	shareValue, err := decimal.NewFromString(r.ShareValue)
	if err != nil {
		return nil, fmt.Errorf("stock transaction %d has invalid share value %q: %w", r.EntityID, r.ShareValue, err)
	}
	return &models.StockTransaction{
		ID:          r.EntityID,
		AccountID:   r.AccountID,
		StockID:     r.StockID,
		SharesCount: sharesCount,
		ShareValue:  shareValue,
		Timestamp:   r.Timestamp,
	}, nil
}
