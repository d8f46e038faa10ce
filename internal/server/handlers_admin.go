package server

import (
	"net/http"
)

// handleAdminStockImport handles POST /api/admin/stocks/import —
// synchronize the stock catalog with the market data provider.
func (s *Server) handleAdminStockImport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if _, ok := requireAccount(w, r); !ok {
		return
	}

	if err := s.app.StockImportService.ImportStocks(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("Stock import failed")
		WriteError(w, http.StatusInternalServerError, "stock import failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
