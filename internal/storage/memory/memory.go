// Package memory provides an in-memory storage manager. It backs unit
// tests and is not persisted across restarts.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/avogel/papertrade/internal/interfaces"
	"github.com/avogel/papertrade/internal/models"
)

// Manager implements interfaces.StorageManager with in-memory maps.
type Manager struct {
	accounts     *accountStore
	stocks       *stockStore
	transactions *transactionStore
}

// NewManager creates an empty in-memory storage manager.
func NewManager() *Manager {
	return &Manager{
		accounts:     &accountStore{accounts: make(map[int64]*models.Account)},
		stocks:       &stockStore{stocks: make(map[int64]*models.Stock)},
		transactions: &transactionStore{},
	}
}

func (m *Manager) AccountStore() interfaces.AccountStore         { return m.accounts }
func (m *Manager) StockStore() interfaces.StockStore             { return m.stocks }
func (m *Manager) TransactionStore() interfaces.TransactionStore { return m.transactions }

func (m *Manager) Close() error { return nil }

type accountStore struct {
	mu       sync.RWMutex
	accounts map[int64]*models.Account
	nextID   int64
}

func (s *accountStore) CreateAccount(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	account.ID = s.nextID
	clone := *account
	s.accounts[account.ID] = &clone
	return nil
}

func (s *accountStore) GetAccount(_ context.Context, id int64) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, interfaces.ErrNotFound)
	}
	clone := *acct
	return &clone, nil
}

func (s *accountStore) GetAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acct := range s.accounts {
		if strings.EqualFold(acct.Email, email) {
			clone := *acct
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("account %q: %w", email, interfaces.ErrNotFound)
}

func (s *accountStore) UpdatePassword(_ context.Context, id int64, hash, salt []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return fmt.Errorf("account %d: %w", id, interfaces.ErrNotFound)
	}
	acct.PasswordHash = append([]byte(nil), hash...)
	acct.PasswordSalt = append([]byte(nil), salt...)
	return nil
}

func (s *accountStore) ListAccounts(_ context.Context) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		clone := *acct
		out = append(out, &clone)
	}
	return out, nil
}

type stockStore struct {
	mu     sync.RWMutex
	stocks map[int64]*models.Stock
	nextID int64
}

func (s *stockStore) CreateStock(_ context.Context, stock *models.Stock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stock.ID = s.nextID
	clone := *stock
	s.stocks[stock.ID] = &clone
	return nil
}

func (s *stockStore) GetStock(_ context.Context, id int64) (*models.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stk, ok := s.stocks[id]
	if !ok {
		return nil, fmt.Errorf("stock %d: %w", id, interfaces.ErrNotFound)
	}
	clone := *stk
	return &clone, nil
}

func (s *stockStore) GetStockByISIN(_ context.Context, isin string) (*models.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, stk := range s.stocks {
		if stk.ISIN == isin {
			clone := *stk
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("stock %q: %w", isin, interfaces.ErrNotFound)
}

func (s *stockStore) SearchStocks(_ context.Context, term string) ([]*models.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lower := strings.ToLower(term)
	out := []*models.Stock{}
	for _, stk := range s.stocks {
		if strings.Contains(strings.ToLower(stk.Name), lower) {
			clone := *stk
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *stockStore) UpdateStockName(_ context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stk, ok := s.stocks[id]
	if !ok {
		return fmt.Errorf("stock %d: %w", id, interfaces.ErrNotFound)
	}
	stk.Name = name
	return nil
}

func (s *stockStore) ListStocks(_ context.Context) ([]*models.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Stock, 0, len(s.stocks))
	for _, stk := range s.stocks {
		clone := *stk
		out = append(out, &clone)
	}
	return out, nil
}

type transactionStore struct {
	mu     sync.RWMutex
	cash   []*models.CashTransaction
	stock  []*models.StockTransaction
	nextID int64
}

func (s *transactionStore) AddCashTransaction(_ context.Context, tx *models.CashTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	tx.ID = s.nextID
	clone := *tx
	s.cash = append(s.cash, &clone)
	return nil
}

func (s *transactionStore) AddStockTransaction(_ context.Context, tx *models.StockTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	tx.ID = s.nextID
	clone := *tx
	s.stock = append(s.stock, &clone)
	return nil
}

func (s *transactionStore) CashTransactionsByAccount(_ context.Context, accountID int64) ([]*models.CashTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.CashTransaction{}
	for _, tx := range s.cash {
		if tx.AccountID == accountID {
			clone := *tx
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *transactionStore) StockTransactionsByAccount(_ context.Context, accountID int64) ([]*models.StockTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.StockTransaction{}
	for _, tx := range s.stock {
		if tx.AccountID == accountID {
			clone := *tx
			out = append(out, &clone)
		}
	}
	return out, nil
}

// Ensure the manager implements the contract.
var _ interfaces.StorageManager = (*Manager)(nil)
