package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/avogel/papertrade/internal/common"
	"github.com/avogel/papertrade/internal/models"
)

// TransactionStore persists the append-only transaction ledgers.
type TransactionStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewTransactionStore(db *surrealdb.DB, logger *common.Logger) *TransactionStore {
	return &TransactionStore{
		db:     db,
		logger: logger,
	}
}

func (s *TransactionStore) AddCashTransaction(ctx context.Context, tx *models.CashTransaction) error {
	id, err := nextID(ctx, s.db, "cash_transaction")
	if err != nil {
		return err
	}
	tx.ID = id

	sql := "CREATE type::record('cash_transaction', $id) CONTENT $tx"
	vars := map[string]any{"id": fmt.Sprint(id), "tx": newCashTransactionRecord(tx)}

	if _, err := surrealdb.Query[[]cashTransactionRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to create cash transaction: %w", err)
	}
	s.logger.Debug().Int64("account_id", tx.AccountID).Str("amount", tx.Amount.String()).Msg("Cash transaction stored")
	return nil
}

func (s *TransactionStore) AddStockTransaction(ctx context.Context, tx *models.StockTransaction) error {
	id, err := nextID(ctx, s.db, "stock_transaction")
	if err != nil {
		return err
	}
	tx.ID = id

	sql := "CREATE type::record('stock_transaction', $id) CONTENT $tx"
	vars := map[string]any{"id": fmt.Sprint(id), "tx": newStockTransactionRecord(tx)}

	if _, err := surrealdb.Query[[]stockTransactionRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to create stock transaction: %w", err)
	}
	s.logger.Debug().Int64("account_id", tx.AccountID).Int64("stock_id", tx.StockID).Msg("Stock transaction stored")
	return nil
}

func (s *TransactionStore) CashTransactionsByAccount(ctx context.Context, accountID int64) ([]*models.CashTransaction, error) {
	sql := "SELECT * FROM cash_transaction WHERE account_id = $account_id"
	vars := map[string]any{"account_id": accountID}

	results, err := surrealdb.Query[[]cashTransactionRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash transactions: %w", err)
	}

	transactions := []*models.CashTransaction{}
	if results != nil && len(*results) > 0 {
		for _, record := range (*results)[0].Result {
			tx, err := record.toModel()
			if err != nil {
				return nil, err
			}
			transactions = append(transactions, tx)
		}
	}
	return transactions, nil
}

func (s *TransactionStore) StockTransactionsByAccount(ctx context.Context, accountID int64) ([]*models.StockTransaction, error) {
	sql := "SELECT * FROM stock_transaction WHERE account_id = $account_id"
	vars := map[string]any{"account_id": accountID}

	results, err := surrealdb.Query[[]stockTransactionRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock transactions: %w", err)
	}

	transactions := []*models.StockTransaction{}
	if results != nil && len(*results) > 0 {
		for _, record := range (*results)[0].Result {
			tx, err := record.toModel()
			if err != nil {
				return nil, err
			}
			transactions = append(transactions, tx)
		}
	}
	return transactions, nil
}
