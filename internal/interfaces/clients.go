package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/avogel/papertrade/internal/models"
)

// StockInfoClient provides current market information for individual stocks.
type StockInfoClient interface {
	// GetCurrentShareValue returns the latest per-share value for the
	// stock identified by isin.
	GetCurrentShareValue(ctx context.Context, isin string) (decimal.Decimal, error)
}

// StockCatalogClient queries the list of currently tradable stocks
// from the external provider.
type StockCatalogClient interface {
	// QueryAll returns the complete catalog, deduplicated by ISIN.
	QueryAll(ctx context.Context) ([]*models.Stock, error)
}
