package server

import (
	"errors"
	"net/http"
	"strconv"

	accountsvc "github.com/avogel/papertrade/internal/services/account"
)

// handleAccountRegister handles POST /api/accounts/register.
func (s *Server) handleAccountRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	account, err := s.app.AccountService.CreateAccount(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, accountsvc.ErrEmailAlreadyRegistered) {
			WriteErrorWithCode(w, http.StatusConflict, "email already registered", "email_taken")
			return
		}
		s.logger.Error().Err(err).Msg("Account registration failed")
		WriteError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    account.ID,
		"email": account.Email,
	})
}

// handleAccountStatus handles GET /api/accounts/status — the aggregated
// balance and share holdings of the authenticated account.
func (s *Server) handleAccountStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ac, ok := requireAccount(w, r)
	if !ok {
		return
	}

	status, err := s.app.StockService.AccountStatus(r.Context(), ac.AccountID)
	if err != nil {
		s.logger.Error().Err(err).Int64("account_id", ac.AccountID).Msg("Account aggregation failed")
		WriteError(w, http.StatusInternalServerError, "failed to aggregate account")
		return
	}

	shares := map[string]string{}
	for stockID, count := range status.StockShares() {
		shares[strconv.FormatInt(stockID, 10)] = count.String()
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"balance": status.Balance().String(),
		"shares":  shares,
	})
}
