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

type AccountStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewAccountStore(db *surrealdb.DB, logger *common.Logger) *AccountStore {
	return &AccountStore{
		db:     db,
		logger: logger,
	}
}

func accountID(id int64) string {
	return fmt.Sprint(id)
}

func (s *AccountStore) CreateAccount(ctx context.Context, account *models.Account) error {
	id, err := nextID(ctx, s.db, "account")
	if err != nil {
		return err
	}
	account.ID = id

	sql := "CREATE type::record('account', $id) CONTENT $account"
	vars := map[string]any{"id": accountID(id), "account": newAccountRecord(account)}

	if _, err := surrealdb.Query[[]accountRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	s.logger.Debug().Int64("account_id", id).Msg("Account stored")
	return nil
}

func (s *AccountStore) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	record, err := surrealdb.Select[accountRecord](ctx, s.db, surrealmodels.NewRecordID("account", accountID(id)))
	if err != nil {
		return nil, fmt.Errorf("failed to select account: %w", err)
	}
	if record == nil || record.EntityID == 0 {
		return nil, fmt.Errorf("account %d: %w", id, interfaces.ErrNotFound)
	}
	return record.toModel(), nil
}

func (s *AccountStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	sql := "SELECT * FROM account WHERE string::lowercase(email) = string::lowercase($email)"
	vars := map[string]any{"email": email}

	results, err := surrealdb.Query[[]accountRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("account '%s': %w", email, interfaces.ErrNotFound)
	}
	return (*results)[0].Result[0].toModel(), nil
}

func (s *AccountStore) UpdatePassword(ctx context.Context, id int64, hash, salt []byte) error {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	account.PasswordHash = hash
	account.PasswordSalt = salt

	sql := "UPSERT type::record('account', $id) CONTENT $account"
	vars := map[string]any{"id": accountID(id), "account": newAccountRecord(account)}

	if _, err := surrealdb.Query[[]accountRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to update account %d: %w", id, err)
	}
	s.logger.Debug().Int64("account_id", id).Msg("Account password updated")
	return nil
}

func (s *AccountStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	list, err := surrealdb.Select[[]accountRecord](ctx, s.db, surrealmodels.Table("account"))
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := []*models.Account{}
	if list != nil {
		for _, record := range *list {
			accounts = append(accounts, record.toModel())
		}
	}
	return accounts, nil
}
