package ledger

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/avogel/papertrade/internal/models"
)

// TransactionSource supplies the two transaction ledgers of an
// account. Both queries return all matching records, unordered and
// possibly empty, and never return a nil slice on success.
// interfaces.TransactionStore satisfies this.
type TransactionSource interface {
	CashTransactionsByAccount(ctx context.Context, accountID int64) ([]*models.CashTransaction, error)
	StockTransactionsByAccount(ctx context.Context, accountID int64) ([]*models.StockTransaction, error)
}

// Aggregator folds the full transaction history of individual accounts
// into their current state.
type Aggregator struct {
	source TransactionSource
}

// NewAggregator creates an Aggregator reading from source.
func NewAggregator(source TransactionSource) *Aggregator {
	return &Aggregator{source: source}
}

// AggregateAccount aggregates all transactions of a single account.
// An account without transactions yields a balance of zero and no
// share holdings; that is a valid state, not an error. Query failures
// from the source propagate unchanged.
func (a *Aggregator) AggregateAccount(ctx context.Context, accountID int64) (*Result, error) {
	var (
		cashTxs  []*models.CashTransaction
		stockTxs []*models.StockTransaction
	)

	// The two ledgers are disjoint record sets, so both reads can run
	// concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cashTxs, err = a.source.CashTransactionsByAccount(gctx, accountID)
		return err
	})
	g.Go(func() error {
		var err error
		stockTxs, err = a.source.StockTransactionsByAccount(gctx, accountID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(cashTxs)+len(stockTxs))
	for _, tx := range cashTxs {
		item, err := MapCash(tx)
		if err != nil {
			return nil, fmt.Errorf("mapping cash transaction: %w", err)
		}
		items = append(items, item)
	}
	for _, tx := range stockTxs {
		item, err := MapStock(tx)
		if err != nil {
			return nil, fmt.Errorf("mapping stock transaction: %w", err)
		}
		items = append(items, item)
	}

	return aggregateItems(items)
}

// aggregateItems folds a sequence of items into a final result. All
// item operations are commutative sums, so the order of the sequence
// does not matter.
func aggregateItems(items []Item) (*Result, error) {
	if items == nil {
		return nil, ErrNilTransaction
	}

	acc := NewAccumulator()
	for _, item := range items {
		item.Apply(acc)
	}

	return acc.Finalize(), nil
}
