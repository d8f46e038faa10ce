package quandl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCodes = "SSE/DB1,Deutsche Boerse AG (DB1) | ISIN DE0005810055\n" +
	"SSE/ALV,Allianz SE (ALV) | ISIN DE0008404005\n"

func TestGetCurrentShareValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/SSE/DB1/data.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"dataset_data": {
				"column_names": ["Date", "High", "Low", "Last", "Volume"],
				"data": [["2016-05-20", 75.12, 73.80, 74.55, 120000]]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", writeCodesFile(t, testCodes), WithBaseURL(server.URL))

	value, err := client.GetCurrentShareValue(context.Background(), "DE0005810055")
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.RequireFromString("74.55")), "expected 74.55, got %s", value)
}

func TestGetCurrentShareValue_PreservesPrecision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"dataset_data": {
				"column_names": ["Date", "Last"],
				"data": [["2016-05-20", 0.07]]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", writeCodesFile(t, testCodes), WithBaseURL(server.URL))

	value, err := client.GetCurrentShareValue(context.Background(), "DE0005810055")
	require.NoError(t, err)
	assert.Equal(t, "0.07", value.String())
}

func TestGetCurrentShareValue_UnknownISIN(t *testing.T) {
	client := NewClient("test-key", writeCodesFile(t, testCodes))

	_, err := client.GetCurrentShareValue(context.Background(), "DE0000000000")
	assert.Error(t, err)
}

func TestGetCurrentShareValue_MissingLastColumn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"dataset_data": {
				"column_names": ["Date", "High", "Low"],
				"data": [["2016-05-20", 75.12, 73.80]]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", writeCodesFile(t, testCodes), WithBaseURL(server.URL))

	_, err := client.GetCurrentShareValue(context.Background(), "DE0005810055")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Last")
}

func TestGetCurrentShareValue_NoDataRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"dataset_data": {
				"column_names": ["Date", "Last"],
				"data": []
			}
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", writeCodesFile(t, testCodes), WithBaseURL(server.URL))

	_, err := client.GetCurrentShareValue(context.Background(), "DE0005810055")
	assert.Error(t, err)
}

func TestGetCurrentShareValue_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "dataset not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("test-key", writeCodesFile(t, testCodes), WithBaseURL(server.URL))

	_, err := client.GetCurrentShareValue(context.Background(), "DE0005810055")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestQueryAll(t *testing.T) {
	client := NewClient("test-key", writeCodesFile(t, testCodes))

	stocks, err := client.QueryAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stocks, 2)
	assert.Equal(t, "DE0005810055", stocks[0].ISIN)
	assert.Equal(t, "Deutsche Boerse AG (DB1)", stocks[0].Name)
	assert.Equal(t, "DE0008404005", stocks[1].ISIN)
}
