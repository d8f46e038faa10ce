// Package account implements account registration, authentication
// checks, and password management.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avogel/papertrade/internal/common"
	"github.com/avogel/papertrade/internal/interfaces"
	"github.com/avogel/papertrade/internal/models"
)

var (
	// ErrEmailAlreadyRegistered is returned when creating an account
	// with an email address that is already in use.
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrEmailNotRegistered is returned when no account exists for an
	// email address.
	ErrEmailNotRegistered = errors.New("email not registered")
)

// initialComment marks the cash grant every new account starts with.
const initialComment = "Initial"

// Service implements interfaces.AccountService.
type Service struct {
	accounts       interfaces.AccountStore
	transactions   interfaces.TransactionStore
	initialBalance decimal.Decimal
	logger         *common.Logger
}

// NewService creates an account Service. initialBalance is the cash
// grant recorded for every new account.
func NewService(accounts interfaces.AccountStore, transactions interfaces.TransactionStore, initialBalance decimal.Decimal, logger *common.Logger) *Service {
	return &Service{
		accounts:       accounts,
		transactions:   transactions,
		initialBalance: initialBalance,
		logger:         logger,
	}
}

// CreateAccount registers a new account and records the initial cash
// grant as the first ledger entry.
func (s *Service) CreateAccount(ctx context.Context, email, password string) (*models.Account, error) {
	existing, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrEmailAlreadyRegistered, email)
	}

	hashed, err := NewHashedPassword(password)
	if err != nil {
		return nil, err
	}

	acct := &models.Account{
		Email:        email,
		PasswordHash: hashed.Hash,
		PasswordSalt: hashed.Salt,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.CreateAccount(ctx, acct); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// Provide some starting budget for the new account.
	grant := &models.CashTransaction{
		AccountID: acct.ID,
		Amount:    s.initialBalance,
		Comment:   initialComment,
		Timestamp: time.Now().UTC(),
	}
	if err := s.transactions.AddCashTransaction(ctx, grant); err != nil {
		return nil, fmt.Errorf("failed to record initial balance: %w", err)
	}

	s.logger.Info().Int64("account_id", acct.ID).Msg("Account created")
	return acct, nil
}

// CheckPassword checks a password for the account registered with
// email. A non-existing account is treated as a normal failed check so
// the existence of accounts is not disclosed.
func (s *Service) CheckPassword(ctx context.Context, email, password string) (bool, error) {
	acct, err := s.accounts.GetAccountByEmail(ctx, email)
	if errors.Is(err, interfaces.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up account: %w", err)
	}

	hashed := HashedPassword{Hash: acct.PasswordHash, Salt: acct.PasswordSalt}
	return hashed.Matches(password), nil
}

// ChangePassword replaces the password of the specified account.
func (s *Service) ChangePassword(ctx context.Context, accountID int64, newPassword string) error {
	if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	hashed, err := NewHashedPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.accounts.UpdatePassword(ctx, accountID, hashed.Hash, hashed.Salt); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info().Int64("account_id", accountID).Msg("Password changed")
	return nil
}

// GetByEmail returns the account registered with email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	acct, err := s.accounts.GetAccountByEmail(ctx, email)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrEmailNotRegistered, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	return acct, nil
}

// Ensure Service implements the contract.
var _ interfaces.AccountService = (*Service)(nil)
