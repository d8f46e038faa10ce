// Package stock implements stock search and the buy/sell operations
// that trade against the aggregated account state.
package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avogel/papertrade/internal/common"
	"github.com/avogel/papertrade/internal/interfaces"
	"github.com/avogel/papertrade/internal/ledger"
	"github.com/avogel/papertrade/internal/models"
)

var (
	// ErrShareValueTooHigh is returned when the current share value
	// exceeds the buyer's price cap.
	ErrShareValueTooHigh = errors.New("current share value exceeds maximum")

	// ErrShareValueTooLow is returned when the current share value is
	// below the seller's price floor.
	ErrShareValueTooLow = errors.New("current share value below minimum")

	// ErrInsufficientFunds is returned when the account balance does
	// not cover the total cost of a buy.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares is returned when the account holds fewer
	// shares than a sell would remove.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrInvalidSharesCount is returned when a trade is requested for
	// zero or a negative number of shares.
	ErrInvalidSharesCount = errors.New("shares count must be positive")
)

// Service implements interfaces.StockService.
type Service struct {
	stocks       interfaces.StockStore
	transactions interfaces.TransactionStore
	aggregator   *ledger.Aggregator
	stockInfo    interfaces.StockInfoClient
	locks        *accountLocks
	logger       *common.Logger
}

// NewService creates a stock Service.
func NewService(stocks interfaces.StockStore, transactions interfaces.TransactionStore, aggregator *ledger.Aggregator, stockInfo interfaces.StockInfoClient, logger *common.Logger) *Service {
	return &Service{
		stocks:       stocks,
		transactions: transactions,
		aggregator:   aggregator,
		stockInfo:    stockInfo,
		locks:        newAccountLocks(),
		logger:       logger,
	}
}

// BuyShares transfers shares of a stock to the account. The current
// share value is fetched from the stock info client; the trade is
// rejected if it exceeds maxShareValue or if the total cost exceeds
// the aggregated balance. An invalid maxShareValue accepts any price.
func (s *Service) BuyShares(ctx context.Context, accountID, stockID int64, sharesCount int64, maxShareValue decimal.NullDecimal) error {
	if sharesCount <= 0 {
		return ErrInvalidSharesCount
	}

	unlock := s.locks.Lock(accountID)
	defer unlock()

	status, err := s.aggregator.AggregateAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to aggregate account: %w", err)
	}

	stk, err := s.stocks.GetStock(ctx, stockID)
	if err != nil {
		return fmt.Errorf("failed to get stock: %w", err)
	}

	shareValue, err := s.stockInfo.GetCurrentShareValue(ctx, stk.ISIN)
	if err != nil {
		return fmt.Errorf("failed to get current share value: %w", err)
	}

	if maxShareValue.Valid && shareValue.GreaterThan(maxShareValue.Decimal) {
		return fmt.Errorf("%w: %s > %s", ErrShareValueTooHigh, shareValue, maxShareValue.Decimal)
	}

	count := decimal.NewFromInt(sharesCount)
	total := shareValue.Mul(count)
	if total.GreaterThan(status.Balance()) {
		return fmt.Errorf("%w: need %s, have %s", ErrInsufficientFunds, total, status.Balance())
	}

	tx := &models.StockTransaction{
		AccountID:   accountID,
		StockID:     stockID,
		SharesCount: count,
		ShareValue:  shareValue,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.transactions.AddStockTransaction(ctx, tx); err != nil {
		return fmt.Errorf("failed to record stock transaction: %w", err)
	}

	s.logger.Info().
		Int64("account_id", accountID).
		Int64("stock_id", stockID).
		Int64("shares", sharesCount).
		Str("share_value", shareValue.String()).
		Msg("Shares bought")
	return nil
}

// SellShares removes shares of a stock from the account, crediting the
// proceeds at the current share value. The trade is rejected if the
// value is below minShareValue or if the account holds fewer shares
// than requested. An invalid minShareValue accepts any price.
func (s *Service) SellShares(ctx context.Context, accountID, stockID int64, sharesCount int64, minShareValue decimal.NullDecimal) error {
	if sharesCount <= 0 {
		return ErrInvalidSharesCount
	}

	unlock := s.locks.Lock(accountID)
	defer unlock()

	status, err := s.aggregator.AggregateAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to aggregate account: %w", err)
	}

	stk, err := s.stocks.GetStock(ctx, stockID)
	if err != nil {
		return fmt.Errorf("failed to get stock: %w", err)
	}

	shareValue, err := s.stockInfo.GetCurrentShareValue(ctx, stk.ISIN)
	if err != nil {
		return fmt.Errorf("failed to get current share value: %w", err)
	}

	if minShareValue.Valid && shareValue.LessThan(minShareValue.Decimal) {
		return fmt.Errorf("%w: %s < %s", ErrShareValueTooLow, shareValue, minShareValue.Decimal)
	}

	count := decimal.NewFromInt(sharesCount)
	held := status.SharesOf(stockID)
	if count.GreaterThan(held) {
		return fmt.Errorf("%w: selling %s, holding %s", ErrInsufficientShares, count, held)
	}

	tx := &models.StockTransaction{
		AccountID:   accountID,
		StockID:     stockID,
		SharesCount: count.Neg(),
		ShareValue:  shareValue,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.transactions.AddStockTransaction(ctx, tx); err != nil {
		return fmt.Errorf("failed to record stock transaction: %w", err)
	}

	s.logger.Info().
		Int64("account_id", accountID).
		Int64("stock_id", stockID).
		Int64("shares", sharesCount).
		Str("share_value", shareValue.String()).
		Msg("Shares sold")
	return nil
}

// SearchStocks returns stocks whose name matches the search term.
func (s *Service) SearchStocks(ctx context.Context, term string) ([]*models.Stock, error) {
	return s.stocks.SearchStocks(ctx, term)
}

// AccountStatus returns the aggregated current state of the account.
func (s *Service) AccountStatus(ctx context.Context, accountID int64) (*ledger.Result, error) {
	return s.aggregator.AggregateAccount(ctx, accountID)
}

// Ensure Service implements the contract.
var _ interfaces.StockService = (*Service)(nil)
