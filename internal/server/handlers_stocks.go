package server

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/avogel/papertrade/internal/interfaces"
	stocksvc "github.com/avogel/papertrade/internal/services/stock"
)

// handleStockSearch handles GET /api/stocks?search=term.
func (s *Server) handleStockSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	term := r.URL.Query().Get("search")
	if term == "" {
		WriteError(w, http.StatusBadRequest, "search query parameter is required")
		return
	}

	stocks, err := s.app.StockService.SearchStocks(r.Context(), term)
	if err != nil {
		s.logger.Error().Err(err).Str("term", term).Msg("Stock search failed")
		WriteError(w, http.StatusInternalServerError, "failed to search stocks")
		return
	}

	results := make([]map[string]interface{}, 0, len(stocks))
	for _, stock := range stocks {
		results = append(results, map[string]interface{}{
			"id":   stock.ID,
			"isin": stock.ISIN,
			"name": stock.Name,
		})
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"stocks": results})
}

// tradeRequest is the body of buy and sell requests. The price bound
// is a decimal string capping the price on buys (max_share_value) and
// flooring it on sells (min_share_value); an omitted bound accepts
// any price.
type tradeRequest struct {
	StockID       int64  `json:"stock_id"`
	SharesCount   int64  `json:"shares_count"`
	MaxShareValue string `json:"max_share_value"`
	MinShareValue string `json:"min_share_value"`
}

func (s *Server) decodeTradeRequest(w http.ResponseWriter, r *http.Request) (*tradeRequest, bool) {
	var req tradeRequest
	if !DecodeJSON(w, r, &req) {
		return nil, false
	}
	if req.StockID == 0 {
		WriteError(w, http.StatusBadRequest, "stock_id is required")
		return nil, false
	}
	if req.SharesCount <= 0 {
		WriteError(w, http.StatusBadRequest, "shares_count must be positive")
		return nil, false
	}
	return &req, true
}

func parseShareValueBound(w http.ResponseWriter, raw, field string) (decimal.NullDecimal, bool) {
	if raw == "" {
		return decimal.NullDecimal{}, true
	}
	bound, err := decimal.NewFromString(raw)
	if err != nil {
		WriteError(w, http.StatusBadRequest, field+" must be a decimal string")
		return decimal.NullDecimal{}, false
	}
	return decimal.NullDecimal{Decimal: bound, Valid: true}, true
}

// handleStockBuy handles POST /api/stocks/buy.
func (s *Server) handleStockBuy(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ac, ok := requireAccount(w, r)
	if !ok {
		return
	}

	req, ok := s.decodeTradeRequest(w, r)
	if !ok {
		return
	}
	maxShareValue, ok := parseShareValueBound(w, req.MaxShareValue, "max_share_value")
	if !ok {
		return
	}

	err := s.app.StockService.BuyShares(r.Context(), ac.AccountID, req.StockID, req.SharesCount, maxShareValue)
	if err != nil {
		s.writeTradeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStockSell handles POST /api/stocks/sell.
func (s *Server) handleStockSell(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ac, ok := requireAccount(w, r)
	if !ok {
		return
	}

	req, ok := s.decodeTradeRequest(w, r)
	if !ok {
		return
	}
	minShareValue, ok := parseShareValueBound(w, req.MinShareValue, "min_share_value")
	if !ok {
		return
	}

	err := s.app.StockService.SellShares(r.Context(), ac.AccountID, req.StockID, req.SharesCount, minShareValue)
	if err != nil {
		s.writeTradeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeTradeError maps trade failures to HTTP responses.
func (s *Server) writeTradeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, stocksvc.ErrShareValueTooHigh):
		WriteErrorWithCode(w, http.StatusConflict, err.Error(), "share_value_too_high")
	case errors.Is(err, stocksvc.ErrShareValueTooLow):
		WriteErrorWithCode(w, http.StatusConflict, err.Error(), "share_value_too_low")
	case errors.Is(err, stocksvc.ErrInsufficientFunds):
		WriteErrorWithCode(w, http.StatusConflict, err.Error(), "insufficient_funds")
	case errors.Is(err, stocksvc.ErrInsufficientShares):
		WriteErrorWithCode(w, http.StatusConflict, err.Error(), "insufficient_shares")
	case errors.Is(err, stocksvc.ErrInvalidSharesCount):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, interfaces.ErrNotFound):
		WriteError(w, http.StatusNotFound, "stock not found")
	default:
		s.logger.Error().Err(err).Msg("Trade failed")
		WriteError(w, http.StatusInternalServerError, "trade failed")
	}
}
