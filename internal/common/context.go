package common

import "context"

// AccountContext carries the authenticated account through a request.
type AccountContext struct {
	AccountID int64
	Email     string
}

type contextKey string

const accountContextKey contextKey = "account_context"

// WithAccountContext returns a context carrying the account.
func WithAccountContext(ctx context.Context, ac *AccountContext) context.Context {
	return context.WithValue(ctx, accountContextKey, ac)
}

// AccountFromContext extracts the account from the context, if present.
func AccountFromContext(ctx context.Context) (*AccountContext, bool) {
	ac, ok := ctx.Value(accountContextKey).(*AccountContext)
	return ac, ok && ac != nil
}
