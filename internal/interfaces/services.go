package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/avogel/papertrade/internal/ledger"
	"github.com/avogel/papertrade/internal/models"
)

// AccountService defines operations to manage accounts of the system.
type AccountService interface {
	// CreateAccount registers a new account for email and records the
	// initial cash grant.
	CreateAccount(ctx context.Context, email, password string) (*models.Account, error)

	// CheckPassword checks a password for the account registered with
	// email. An unknown email is reported as a plain failed check so
	// the existence of accounts is not disclosed.
	CheckPassword(ctx context.Context, email, password string) (bool, error)

	// ChangePassword replaces the password of the specified account.
	ChangePassword(ctx context.Context, accountID int64, newPassword string) error

	// GetByEmail returns the account registered with email.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}

// StockService defines operations to trade and search stocks.
type StockService interface {
	// BuyShares transfers sharesCount shares of a stock to the account,
	// paying the current share value from the account balance.
	// maxShareValue caps the accepted per-share price; an invalid
	// bound means the buyer accepts any price.
	BuyShares(ctx context.Context, accountID, stockID int64, sharesCount int64, maxShareValue decimal.NullDecimal) error

	// SellShares removes sharesCount shares of a stock from the account,
	// crediting the current share value to the balance. minShareValue is
	// the lowest accepted per-share price; an invalid bound means the
	// seller accepts any price.
	SellShares(ctx context.Context, accountID, stockID int64, sharesCount int64, minShareValue decimal.NullDecimal) error

	// SearchStocks returns stocks whose name matches the search term.
	SearchStocks(ctx context.Context, term string) ([]*models.Stock, error)

	// AccountStatus returns the aggregated current state of the account.
	AccountStatus(ctx context.Context, accountID int64) (*ledger.Result, error)
}

// StockImportService synchronizes the stored stock catalog with the
// external provider.
type StockImportService interface {
	// ImportStocks creates stocks with unseen ISINs and updates renamed
	// ones. Stocks that disappeared from the catalog are kept.
	ImportStocks(ctx context.Context) error
}
