package badger

import (
	"context"
	"fmt"
	"strings"

	"github.com/timshannon/badgerhold/v4"

	"github.com/avogel/papertrade/internal/common"
	"github.com/avogel/papertrade/internal/interfaces"
	"github.com/avogel/papertrade/internal/models"
)

type stockStore struct {
	store  *Store
	logger *common.Logger
}

// NewStockStore creates a StockStore backed by BadgerHold.
func NewStockStore(store *Store, logger *common.Logger) *stockStore {
	return &stockStore{store: store, logger: logger}
}

func (s *stockStore) CreateStock(_ context.Context, stock *models.Stock) error {
	id, err := s.store.nextID("stock")
	if err != nil {
		return err
	}
	stock.ID = id

	if err := s.store.db.Insert(stock.ID, stock); err != nil {
		return fmt.Errorf("failed to insert stock: %w", err)
	}
	s.logger.Debug().Int64("stock_id", stock.ID).Str("isin", stock.ISIN).Msg("Stock stored")
	return nil
}

func (s *stockStore) GetStock(_ context.Context, id int64) (*models.Stock, error) {
	var stock models.Stock
	err := s.store.db.Get(id, &stock)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("stock %d: %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get stock %d: %w", id, err)
	}
	return &stock, nil
}

func (s *stockStore) GetStockByISIN(_ context.Context, isin string) (*models.Stock, error) {
	var stocks []models.Stock
	if err := s.store.db.Find(&stocks, badgerhold.Where("ISIN").Eq(isin)); err != nil {
		return nil, fmt.Errorf("failed to find stock by ISIN: %w", err)
	}
	if len(stocks) == 0 {
		return nil, fmt.Errorf("stock '%s': %w", isin, interfaces.ErrNotFound)
	}
	return &stocks[0], nil
}

func (s *stockStore) SearchStocks(_ context.Context, term string) ([]*models.Stock, error) {
	lower := strings.ToLower(term)

	var stocks []models.Stock
	query := badgerhold.Where("Name").MatchFunc(func(ra *badgerhold.RecordAccess) (bool, error) {
		stock, ok := ra.Record().(*models.Stock)
		if !ok {
			return false, nil
		}
		return strings.Contains(strings.ToLower(stock.Name), lower), nil
	})
	if err := s.store.db.Find(&stocks, query); err != nil {
		return nil, fmt.Errorf("failed to search stocks: %w", err)
	}

	out := make([]*models.Stock, len(stocks))
	for i := range stocks {
		out[i] = &stocks[i]
	}
	return out, nil
}

func (s *stockStore) UpdateStockName(ctx context.Context, id int64, name string) error {
	stock, err := s.GetStock(ctx, id)
	if err != nil {
		return err
	}

	stock.Name = name
	if err := s.store.db.Update(id, stock); err != nil {
		return fmt.Errorf("failed to update stock %d: %w", id, err)
	}
	s.logger.Debug().Int64("stock_id", id).Str("name", name).Msg("Stock renamed")
	return nil
}

func (s *stockStore) ListStocks(_ context.Context) ([]*models.Stock, error) {
	var stocks []models.Stock
	if err := s.store.db.Find(&stocks, nil); err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	out := make([]*models.Stock, len(stocks))
	for i := range stocks {
		out[i] = &stocks[i]
	}
	return out, nil
}
