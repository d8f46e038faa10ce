package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/avogel/papertrade/internal/common"
	"github.com/avogel/papertrade/internal/interfaces"
	"github.com/avogel/papertrade/internal/models"
)

type StockStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewStockStore(db *surrealdb.DB, logger *common.Logger) *StockStore {
	return &StockStore{
		db:     db,
		logger: logger,
	}
}

func stockID(id int64) string {
	return fmt.Sprint(id)
}

func (s *StockStore) CreateStock(ctx context.Context, stock *models.Stock) error {
	id, err := nextID(ctx, s.db, "stock")
	if err != nil {
		return err
	}
	stock.ID = id

	sql := "CREATE type::record('stock', $id) CONTENT $stock"
	vars := map[string]any{"id": stockID(id), "stock": newStockRecord(stock)}

	if _, err := surrealdb.Query[[]stockRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to create stock: %w", err)
	}
	s.logger.Debug().Int64("stock_id", id).Str("isin", stock.ISIN).Msg("Stock stored")
	return nil
}

func (s *StockStore) GetStock(ctx context.Context, id int64) (*models.Stock, error) {
	record, err := surrealdb.Select[stockRecord](ctx, s.db, surrealmodels.NewRecordID("stock", stockID(id)))
	if err != nil {
		return nil, fmt.Errorf("failed to select stock: %w", err)
	}
	if record == nil || record.EntityID == 0 {
		return nil, fmt.Errorf("stock %d: %w", id, interfaces.ErrNotFound)
	}
	return record.toModel(), nil
}

func (s *StockStore) GetStockByISIN(ctx context.Context, isin string) (*models.Stock, error) {
	sql := "SELECT * FROM stock WHERE isin = $isin"
	vars := map[string]any{"isin": isin}

	results, err := surrealdb.Query[[]stockRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to find stock by ISIN: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("stock '%s': %w", isin, interfaces.ErrNotFound)
	}
	return (*results)[0].Result[0].toModel(), nil
}

func (s *StockStore) SearchStocks(ctx context.Context, term string) ([]*models.Stock, error) {
	sql := "SELECT * FROM stock WHERE string::lowercase(name) CONTAINS string::lowercase($term)"
	vars := map[string]any{"term": term}

	results, err := surrealdb.Query[[]stockRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to search stocks: %w", err)
	}

	stocks := []*models.Stock{}
	if results != nil && len(*results) > 0 {
		for _, record := range (*results)[0].Result {
			stocks = append(stocks, record.toModel())
		}
	}
	return stocks, nil
}

func (s *StockStore) UpdateStockName(ctx context.Context, id int64, name string) error {
	stock, err := s.GetStock(ctx, id)
	if err != nil {
		return err
	}

	stock.Name = name

	sql := "UPSERT type::record('stock', $id) CONTENT $stock"
	vars := map[string]any{"id": stockID(id), "stock": newStockRecord(stock)}

	if _, err := surrealdb.Query[[]stockRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to update stock %d: %w", id, err)
	}
	s.logger.Debug().Int64("stock_id", id).Str("name", name).Msg("Stock renamed")
	return nil
}

func (s *StockStore) ListStocks(ctx context.Context) ([]*models.Stock, error) {
	list, err := surrealdb.Select[[]stockRecord](ctx, s.db, surrealmodels.Table("stock"))
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}

	stocks := []*models.Stock{}
	if list != nil {
		for _, record := range *list {
			stocks = append(stocks, record.toModel())
		}
	}
	return stocks, nil
}
