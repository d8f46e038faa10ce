// Package stockimport synchronizes the stored stock catalog with the
// external market data provider.
package stockimport

import (
	"context"
	"errors"
	"fmt"

	"github.com/avogel/papertrade/internal/common"
	"github.com/avogel/papertrade/internal/interfaces"
)

// Service implements interfaces.StockImportService.
type Service struct {
	stocks  interfaces.StockStore
	catalog interfaces.StockCatalogClient
	logger  *common.Logger
}

// NewService creates a stock import Service.
func NewService(stocks interfaces.StockStore, catalog interfaces.StockCatalogClient, logger *common.Logger) *Service {
	return &Service{
		stocks:  stocks,
		catalog: catalog,
		logger:  logger,
	}
}

// ImportStocks fetches the provider catalog and reconciles the stock
// store against it. Unseen ISINs are created, renamed stocks are
// updated, and stocks missing from the catalog are kept so existing
// transactions stay resolvable.
func (s *Service) ImportStocks(ctx context.Context) error {
	listed, err := s.catalog.QueryAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to query stock catalog: %w", err)
	}

	var created, updated int
	for _, candidate := range listed {
		existing, err := s.stocks.GetStockByISIN(ctx, candidate.ISIN)
		if errors.Is(err, interfaces.ErrNotFound) {
			stock := *candidate
			stock.ID = 0
			if err := s.stocks.CreateStock(ctx, &stock); err != nil {
				return fmt.Errorf("failed to create stock %s: %w", candidate.ISIN, err)
			}
			created++
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to look up stock %s: %w", candidate.ISIN, err)
		}

		if existing.Name != candidate.Name {
			if err := s.stocks.UpdateStockName(ctx, existing.ID, candidate.Name); err != nil {
				return fmt.Errorf("failed to rename stock %s: %w", candidate.ISIN, err)
			}
			updated++
		}
	}

	s.logger.Info().
		Int("listed", len(listed)).
		Int("created", created).
		Int("updated", updated).
		Msg("Stock import completed")
	return nil
}

// Ensure Service implements the contract.
var _ interfaces.StockImportService = (*Service)(nil)
