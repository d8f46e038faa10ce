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

type accountStore struct {
	store  *Store
	logger *common.Logger
}

// NewAccountStore creates an AccountStore backed by BadgerHold.
func NewAccountStore(store *Store, logger *common.Logger) *accountStore {
	return &accountStore{store: store, logger: logger}
}

func (s *accountStore) CreateAccount(_ context.Context, account *models.Account) error {
	id, err := s.store.nextID("account")
	if err != nil {
		return err
	}
	account.ID = id

	if err := s.store.db.Insert(account.ID, account); err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	s.logger.Debug().Int64("account_id", account.ID).Msg("Account stored")
	return nil
}

func (s *accountStore) GetAccount(_ context.Context, id int64) (*models.Account, error) {
	var account models.Account
	err := s.store.db.Get(id, &account)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("account %d: %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	return &account, nil
}

func (s *accountStore) GetAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	var accounts []models.Account
	query := badgerhold.Where("Email").MatchFunc(func(ra *badgerhold.RecordAccess) (bool, error) {
		account, ok := ra.Record().(*models.Account)
		if !ok {
			return false, nil
		}
		return strings.EqualFold(account.Email, email), nil
	})
	if err := s.store.db.Find(&accounts, query); err != nil {
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("account '%s': %w", email, interfaces.ErrNotFound)
	}
	return &accounts[0], nil
}

func (s *accountStore) UpdatePassword(ctx context.Context, id int64, hash, salt []byte) error {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	account.PasswordHash = hash
	account.PasswordSalt = salt
	if err := s.store.db.Update(id, account); err != nil {
		return fmt.Errorf("failed to update account %d: %w", id, err)
	}
	s.logger.Debug().Int64("account_id", id).Msg("Account password updated")
	return nil
}

func (s *accountStore) ListAccounts(_ context.Context) ([]*models.Account, error) {
	var accounts []models.Account
	if err := s.store.db.Find(&accounts, nil); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	out := make([]*models.Account, len(accounts))
	for i := range accounts {
		out[i] = &accounts[i]
	}
	return out, nil
}
