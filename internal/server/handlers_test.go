package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avogel/papertrade/internal/app"
	"github.com/avogel/papertrade/internal/common"
	"github.com/avogel/papertrade/internal/ledger"
	"github.com/avogel/papertrade/internal/models"
	accountsvc "github.com/avogel/papertrade/internal/services/account"
	stocksvc "github.com/avogel/papertrade/internal/services/stock"
	"github.com/avogel/papertrade/internal/services/stockimport"
	"github.com/avogel/papertrade/internal/storage/memory"
)

// fixedPriceClient returns the same share value for every stock.
type fixedPriceClient struct {
	value decimal.Decimal
}

func (c *fixedPriceClient) GetCurrentShareValue(_ context.Context, _ string) (decimal.Decimal, error) {
	return c.value, nil
}

// staticCatalog returns a fixed stock catalog.
type staticCatalog struct {
	stocks []*models.Stock
}

func (c *staticCatalog) QueryAll(_ context.Context) ([]*models.Stock, error) {
	return c.stocks, nil
}

// newTestServer builds a server over in-memory storage with one listed
// stock priced at 100.
func newTestServer(t *testing.T) (*Server, *memory.Manager, int64) {
	t.Helper()

	store := memory.NewManager()
	logger := common.NewSilentLogger()
	config := common.NewDefaultConfig()

	stk := &models.Stock{ISIN: "DE0005140008", Name: "Deutsche Bank AG"}
	require.NoError(t, store.StockStore().CreateStock(context.Background(), stk))

	aggregator := ledger.NewAggregator(store.TransactionStore())
	priceClient := &fixedPriceClient{value: decimal.NewFromInt(100)}
	catalog := &staticCatalog{stocks: []*models.Stock{
		{ISIN: "DE0005140008", Name: "Deutsche Bank AG"},
		{ISIN: "DE0008404005", Name: "Allianz SE"},
	}}

	a := &app.App{
		Config:             config,
		Logger:             logger,
		Storage:            store,
		Aggregator:         aggregator,
		AccountService:     accountsvc.NewService(store.AccountStore(), store.TransactionStore(), decimal.NewFromInt(10000), logger),
		StockService:       stocksvc.NewService(store.StockStore(), store.TransactionStore(), aggregator, priceClient, logger),
		StockImportService: stockimport.NewService(store.StockStore(), catalog, logger),
		StartupTime:        time.Now(),
	}

	return NewServer(a), store, stk.ID
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// registerAndLogin creates an account and returns its bearer token.
func registerAndLogin(t *testing.T, srv *Server, email, password string) string {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/accounts/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "register failed: %s", rec.Body.String())

	rec = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	token, _ := decodeBody(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegister(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/accounts/register", "", map[string]string{
		"email":    "test@test.de",
		"password": "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "test@test.de", body["email"])
	assert.NotZero(t, body["id"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	srv, _, _ := newTestServer(t)

	first := doJSON(t, srv, http.MethodPost, "/api/accounts/register", "", map[string]string{
		"email": "test@test.de", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(t, srv, http.MethodPost, "/api/accounts/register", "", map[string]string{
		"email": "test@test.de", "password": "other",
	})
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, "email_taken", decodeBody(t, second)["code"])
}

func TestRegister_MissingFields(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/accounts/register", "", map[string]string{
		"email": "test@test.de",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	srv, _, _ := newTestServer(t)
	registerAndLogin(t, srv, "test@test.de", "secret")

	rec := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "test@test.de", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@test.de", "password": "secret",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccountStatus_FreshAccount(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "test@test.de", "secret")

	rec := doJSON(t, srv, http.MethodGet, "/api/accounts/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "10000", body["balance"])
	assert.Empty(t, body["shares"])
}

func TestAccountStatus_RequiresAuth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/accounts/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccountStatus_RejectsBadToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/accounts/status", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestStockSearch(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/stocks?search=bank", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	stocks, ok := body["stocks"].([]interface{})
	require.True(t, ok)
	require.Len(t, stocks, 1)
}

func TestStockSearch_RequiresTerm(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/stocks", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuyAndStatus(t *testing.T) {
	srv, _, stockID := newTestServer(t)
	token := registerAndLogin(t, srv, "test@test.de", "secret")

	rec := doJSON(t, srv, http.MethodPost, "/api/stocks/buy", token, map[string]interface{}{
		"stock_id":        stockID,
		"shares_count":    3,
		"max_share_value": "110",
	})
	require.Equal(t, http.StatusOK, rec.Code, "buy failed: %s", rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/api/accounts/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "9700", body["balance"])

	shares, ok := body["shares"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "3", shares["1"])
}

func TestBuy_PriceAboveLimit(t *testing.T) {
	srv, _, stockID := newTestServer(t)
	token := registerAndLogin(t, srv, "test@test.de", "secret")

	rec := doJSON(t, srv, http.MethodPost, "/api/stocks/buy", token, map[string]interface{}{
		"stock_id":        stockID,
		"shares_count":    1,
		"max_share_value": "99",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "share_value_too_high", decodeBody(t, rec)["code"])
}

func TestBuy_WithoutPriceBound(t *testing.T) {
	srv, _, stockID := newTestServer(t)
	token := registerAndLogin(t, srv, "test@test.de", "secret")

	// An omitted max_share_value means the buyer accepts any price.
	rec := doJSON(t, srv, http.MethodPost, "/api/stocks/buy", token, map[string]interface{}{
		"stock_id":     stockID,
		"shares_count": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code, "buy failed: %s", rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/api/accounts/status", token, nil)
	assert.Equal(t, "9900", decodeBody(t, rec)["balance"])
}

func TestBuy_RejectsMalformedPriceBound(t *testing.T) {
	srv, _, stockID := newTestServer(t)
	token := registerAndLogin(t, srv, "test@test.de", "secret")

	rec := doJSON(t, srv, http.MethodPost, "/api/stocks/buy", token, map[string]interface{}{
		"stock_id":        stockID,
		"shares_count":    1,
		"max_share_value": "not-a-number",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuy_InsufficientFunds(t *testing.T) {
	srv, _, stockID := newTestServer(t)
	token := registerAndLogin(t, srv, "test@test.de", "secret")

	rec := doJSON(t, srv, http.MethodPost, "/api/stocks/buy", token, map[string]interface{}{
		"stock_id":        stockID,
		"shares_count":    101,
		"max_share_value": "100",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "insufficient_funds", decodeBody(t, rec)["code"])
}

func TestBuy_UnknownStock(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "test@test.de", "secret")

	rec := doJSON(t, srv, http.MethodPost, "/api/stocks/buy", token, map[string]interface{}{
		"stock_id":        999,
		"shares_count":    1,
		"max_share_value": "110",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuy_RequiresAuth(t *testing.T) {
	srv, _, stockID := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/stocks/buy", "", map[string]interface{}{
		"stock_id":        stockID,
		"shares_count":    1,
		"max_share_value": "110",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSell(t *testing.T) {
	srv, _, stockID := newTestServer(t)
	token := registerAndLogin(t, srv, "test@test.de", "secret")

	rec := doJSON(t, srv, http.MethodPost, "/api/stocks/buy", token, map[string]interface{}{
		"stock_id":        stockID,
		"shares_count":    3,
		"max_share_value": "100",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/stocks/sell", token, map[string]interface{}{
		"stock_id":        stockID,
		"shares_count":    2,
		"min_share_value": "90",
	})
	require.Equal(t, http.StatusOK, rec.Code, "sell failed: %s", rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/api/accounts/status", token, nil)
	body := decodeBody(t, rec)
	assert.Equal(t, "9900", body["balance"])
}

func TestSell_MoreThanHeld(t *testing.T) {
	srv, _, stockID := newTestServer(t)
	token := registerAndLogin(t, srv, "test@test.de", "secret")

	rec := doJSON(t, srv, http.MethodPost, "/api/stocks/sell", token, map[string]interface{}{
		"stock_id":        stockID,
		"shares_count":    1,
		"min_share_value": "90",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "insufficient_shares", decodeBody(t, rec)["code"])
}

func TestChangePassword(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "test@test.de", "secret")

	rec := doJSON(t, srv, http.MethodPost, "/api/auth/password", token, map[string]string{
		"old_password": "secret",
		"new_password": "changed",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "test@test.de", "password": "changed",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "test@test.de", "password": "secret",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "test@test.de", "secret")

	rec := doJSON(t, srv, http.MethodPost, "/api/auth/password", token, map[string]string{
		"old_password": "wrong",
		"new_password": "changed",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "test@test.de", "password": "secret",
	})
	assert.Equal(t, http.StatusOK, rec.Code, "password must be unchanged after a rejected change")
}

func TestAdminStockImport(t *testing.T) {
	srv, store, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "admin@test.de", "secret")

	rec := doJSON(t, srv, http.MethodPost, "/api/admin/stocks/import", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, "import failed: %s", rec.Body.String())

	stocks, err := store.StockStore().ListStocks(context.Background())
	require.NoError(t, err)
	assert.Len(t, stocks, 2)
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestVersion(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/version", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["version"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/accounts/register", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/stocks", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
