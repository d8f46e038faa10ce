// Package quandl provides a client for the Quandl time-series API.
// Share values come from the SSE (Boerse Stuttgart) database; datasets
// are resolved from ISINs through the database's codes file.
package quandl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/avogel/papertrade/internal/common"
	"github.com/avogel/papertrade/internal/interfaces"
	"github.com/avogel/papertrade/internal/models"
)

const (
	DefaultBaseURL   = "https://www.quandl.com/api/v3"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	// lastColumnName is the dataset column carrying the latest trade price.
	lastColumnName = "Last"
)

// Client implements the StockInfoClient and StockCatalogClient
// interfaces against the Quandl API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	codes      *codesProvider
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Quandl client. codesFilePath points at the
// SSE datasets codes CSV used to resolve ISINs to dataset codes.
func NewClient(apiKey, codesFilePath string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
		codes:   newCodesProvider(codesFilePath),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Quandl API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Quandl API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	// Numbers stay json.Number so prices survive without a float round-trip.
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// datasetDataResponse represents the dataset data API response
type datasetDataResponse struct {
	DatasetData struct {
		ColumnNames []string        `json:"column_names"`
		Data        [][]interface{} `json:"data"`
	} `json:"dataset_data"`
}

// GetCurrentShareValue returns the latest per-share value for the
// stock identified by isin. The dataset is resolved through the codes
// file; the value is read from the most recent row's Last column.
func (c *Client) GetCurrentShareValue(ctx context.Context, isin string) (decimal.Decimal, error) {
	entry, err := c.codes.lookup(isin)
	if err != nil {
		return decimal.Decimal{}, err
	}

	params := url.Values{}
	params.Set("limit", "1")

	path := fmt.Sprintf("/datasets/%s/data.json", entry.Code)

	var resp datasetDataResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return decimal.Decimal{}, err
	}

	lastIdx := -1
	for i, name := range resp.DatasetData.ColumnNames {
		if name == lastColumnName {
			lastIdx = i
			break
		}
	}
	if lastIdx < 0 {
		return decimal.Decimal{}, fmt.Errorf("dataset %s has no %q column", entry.Code, lastColumnName)
	}

	if len(resp.DatasetData.Data) == 0 {
		return decimal.Decimal{}, fmt.Errorf("dataset %s returned no data rows", entry.Code)
	}
	row := resp.DatasetData.Data[0]
	if lastIdx >= len(row) {
		return decimal.Decimal{}, fmt.Errorf("dataset %s row has no value at column %d", entry.Code, lastIdx)
	}

	value, err := parseCell(row[lastIdx])
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("dataset %s: %w", entry.Code, err)
	}

	c.logger.Debug().Str("isin", isin).Str("value", value.String()).Msg("Share value fetched")
	return value, nil
}

// parseCell converts a dataset cell into a decimal.
func parseCell(cell interface{}) (decimal.Decimal, error) {
	switch v := cell.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(v)
	default:
		return decimal.Decimal{}, fmt.Errorf("unexpected cell type %T", cell)
	}
}

// QueryAll returns the tradable stock catalog from the codes file,
// deduplicated by ISIN.
func (c *Client) QueryAll(_ context.Context) ([]*models.Stock, error) {
	entries, err := c.codes.all()
	if err != nil {
		return nil, err
	}

	stocks := make([]*models.Stock, 0, len(entries))
	for _, entry := range entries {
		stocks = append(stocks, &models.Stock{
			ISIN: entry.ISIN,
			Name: entry.Name,
		})
	}
	return stocks, nil
}

// Ensure Client implements the client contracts.
var (
	_ interfaces.StockInfoClient    = (*Client)(nil)
	_ interfaces.StockCatalogClient = (*Client)(nil)
)
