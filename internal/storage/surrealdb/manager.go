// Package surrealdb provides the SurrealDB storage backend.
package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/avogel/papertrade/internal/common"
	"github.com/avogel/papertrade/internal/interfaces"
)

// Manager implements interfaces.StorageManager using SurrealDB.
type Manager struct {
	db     *surrealdb.DB
	logger *common.Logger

	accounts     *AccountStore
	stocks       *StockStore
	transactions *TransactionStore
}

// NewManager creates a new StorageManager connected to SurrealDB.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx := context.Background()

	// Connect to SurrealDB
	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	// Sign in
	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	// Select namespace and database
	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// Define tables to ensure they exist (SurrealDB v3 errors on querying non-existent tables)
	tables := []string{"account", "stock", "cash_transaction", "stock_transaction", "sequence"}
	for _, table := range tables {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}

	m := &Manager{
		db:     db,
		logger: logger,
	}
	m.accounts = NewAccountStore(db, logger)
	m.stocks = NewStockStore(db, logger)
	m.transactions = NewTransactionStore(db, logger)

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Msg("SurrealDB storage manager initialized")

	return m, nil
}

func (m *Manager) AccountStore() interfaces.AccountStore {
	return m.accounts
}

func (m *Manager) StockStore() interfaces.StockStore {
	return m.stocks
}

func (m *Manager) TransactionStore() interfaces.TransactionStore {
	return m.transactions
}

func (m *Manager) Close() error {
	m.db.Close(context.Background())
	return nil
}

// nextID increments and returns the named ID sequence.
func nextID(ctx context.Context, db *surrealdb.DB, name string) (int64, error) {
	sql := "UPSERT type::record('sequence', $name) SET value += 1 RETURN VALUE value"
	vars := map[string]any{"name": name}

	results, err := surrealdb.Query[[]int64](ctx, db, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence '%s': %w", name, err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, fmt.Errorf("sequence '%s' returned no value", name)
	}
	return (*results)[0].Result[0], nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
