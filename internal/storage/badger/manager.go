package badger

import (
	"github.com/avogel/papertrade/internal/common"
	"github.com/avogel/papertrade/internal/interfaces"
)

// Manager bundles the BadgerHold-backed stores behind the
// StorageManager interface.
type Manager struct {
	store        *Store
	accounts     interfaces.AccountStore
	stocks       interfaces.StockStore
	transactions interfaces.TransactionStore
}

// NewManager opens a BadgerHold database at path and wires the stores.
func NewManager(logger *common.Logger, path string) (*Manager, error) {
	store, err := NewStore(logger, path)
	if err != nil {
		return nil, err
	}

	return &Manager{
		store:        store,
		accounts:     NewAccountStore(store, logger),
		stocks:       NewStockStore(store, logger),
		transactions: NewTransactionStore(store, logger),
	}, nil
}

func (m *Manager) AccountStore() interfaces.AccountStore         { return m.accounts }
func (m *Manager) StockStore() interfaces.StockStore             { return m.stocks }
func (m *Manager) TransactionStore() interfaces.TransactionStore { return m.transactions }

func (m *Manager) Close() error {
	return m.store.Close()
}

// Ensure Manager implements the contract.
var _ interfaces.StorageManager = (*Manager)(nil)
