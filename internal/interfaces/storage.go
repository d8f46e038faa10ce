// Package interfaces defines service and storage contracts for papertrade.
package interfaces

import (
	"context"
	"errors"

	"github.com/avogel/papertrade/internal/models"
)

// ErrNotFound is returned by store lookups when no entity matches.
// Implementations wrap it so callers can test with errors.Is.
var ErrNotFound = errors.New("not found")

// StorageManager coordinates the storage backends.
type StorageManager interface {
	AccountStore() AccountStore
	StockStore() StockStore
	TransactionStore() TransactionStore

	Close() error
}

// AccountStore manages user accounts.
type AccountStore interface {
	// CreateAccount stores a new account, assigning its ID.
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	// GetAccountByEmail looks up an account by email address,
	// compared case-insensitively.
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdatePassword(ctx context.Context, id int64, hash, salt []byte) error
	ListAccounts(ctx context.Context) ([]*models.Account, error)
}

// StockStore manages the tradable stock catalog.
type StockStore interface {
	// CreateStock stores a new stock, assigning its ID.
	CreateStock(ctx context.Context, stock *models.Stock) error
	GetStock(ctx context.Context, id int64) (*models.Stock, error)
	GetStockByISIN(ctx context.Context, isin string) (*models.Stock, error)
	// SearchStocks returns stocks whose name contains term,
	// compared case-insensitively.
	SearchStocks(ctx context.Context, term string) ([]*models.Stock, error)
	UpdateStockName(ctx context.Context, id int64, name string) error
	ListStocks(ctx context.Context) ([]*models.Stock, error)
}

// TransactionStore manages the append-only transaction ledgers.
// The query methods return all records of one account, unordered and
// possibly empty; a successful call never returns a nil slice.
type TransactionStore interface {
	AddCashTransaction(ctx context.Context, tx *models.CashTransaction) error
	AddStockTransaction(ctx context.Context, tx *models.StockTransaction) error
	CashTransactionsByAccount(ctx context.Context, accountID int64) ([]*models.CashTransaction, error)
	StockTransactionsByAccount(ctx context.Context, accountID int64) ([]*models.StockTransaction, error)
}
