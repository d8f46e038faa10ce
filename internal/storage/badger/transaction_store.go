package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/avogel/papertrade/internal/common"
	"github.com/avogel/papertrade/internal/models"
)

type transactionStore struct {
	store  *Store
	logger *common.Logger
}

// NewTransactionStore creates a TransactionStore backed by BadgerHold.
// Records are append-only; no update or delete paths exist.
func NewTransactionStore(store *Store, logger *common.Logger) *transactionStore {
	return &transactionStore{store: store, logger: logger}
}

func (s *transactionStore) AddCashTransaction(_ context.Context, tx *models.CashTransaction) error {
	id, err := s.store.nextID("cash_transaction")
	if err != nil {
		return err
	}
	tx.ID = id

	if err := s.store.db.Insert(tx.ID, tx); err != nil {
		return fmt.Errorf("failed to insert cash transaction: %w", err)
	}
	s.logger.Debug().Int64("account_id", tx.AccountID).Str("amount", tx.Amount.String()).Msg("Cash transaction stored")
	return nil
}

func (s *transactionStore) AddStockTransaction(_ context.Context, tx *models.StockTransaction) error {
	id, err := s.store.nextID("stock_transaction")
	if err != nil {
		return err
	}
	tx.ID = id

	if err := s.store.db.Insert(tx.ID, tx); err != nil {
		return fmt.Errorf("failed to insert stock transaction: %w", err)
	}
	s.logger.Debug().Int64("account_id", tx.AccountID).Int64("stock_id", tx.StockID).Msg("Stock transaction stored")
	return nil
}

func (s *transactionStore) CashTransactionsByAccount(_ context.Context, accountID int64) ([]*models.CashTransaction, error) {
	var records []models.CashTransaction
	if err := s.store.db.Find(&records, badgerhold.Where("AccountID").Eq(accountID)); err != nil {
		return nil, fmt.Errorf("failed to query cash transactions: %w", err)
	}

	out := make([]*models.CashTransaction, len(records))
	for i := range records {
		out[i] = &records[i]
	}
	return out, nil
}

func (s *transactionStore) StockTransactionsByAccount(_ context.Context, accountID int64) ([]*models.StockTransaction, error) {
	var records []models.StockTransaction
	if err := s.store.db.Find(&records, badgerhold.Where("AccountID").Eq(accountID)); err != nil {
		return nil, fmt.Errorf("failed to query stock transactions: %w", err)
	}

	out := make([]*models.StockTransaction, len(records))
	for i := range records {
		out[i] = &records[i]
	}
	return out, nil
}
