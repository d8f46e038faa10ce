package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avogel/papertrade/internal/common"
	"github.com/avogel/papertrade/internal/models"
)

// signJWT creates a signed HMAC-SHA256 JWT for the given account.
func signJWT(account *models.Account, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(account.ID, 10),
		"email": account.Email,
		"iss":   "papertrade-server",
		"iat":   now.Unix(),
		"exp":   now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return token, claims, nil
}

// handleAuthLogin handles POST /api/auth/login — exchange credentials for a JWT.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
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

	ctx := r.Context()

	ok, err := s.app.AccountService.CheckPassword(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Password check failed")
		WriteError(w, http.StatusInternalServerError, "failed to check credentials")
		return
	}
	if !ok {
		WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	account, err := s.app.AccountService.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("Account lookup failed after password check")
		WriteError(w, http.StatusInternalServerError, "failed to load account")
		return
	}

	token, err := signJWT(account, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign JWT")
		WriteError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"account": map[string]interface{}{
			"id":    account.ID,
			"email": account.Email,
		},
	})
}

// handleAuthPassword handles POST /api/auth/password — change the
// password of the authenticated account.
func (s *Server) handleAuthPassword(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ac, ok := requireAccount(w, r)
	if !ok {
		return
	}

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		WriteError(w, http.StatusBadRequest, "old_password and new_password are required")
		return
	}

	ok, err := s.app.AccountService.CheckPassword(r.Context(), ac.Email, req.OldPassword)
	if err != nil {
		s.logger.Error().Err(err).Int64("account_id", ac.AccountID).Msg("Password check failed")
		WriteError(w, http.StatusInternalServerError, "failed to check credentials")
		return
	}
	if !ok {
		WriteError(w, http.StatusForbidden, "old password does not match")
		return
	}

	if err := s.app.AccountService.ChangePassword(r.Context(), ac.AccountID, req.NewPassword); err != nil {
		s.logger.Error().Err(err).Int64("account_id", ac.AccountID).Msg("Password change failed")
		WriteError(w, http.StatusInternalServerError, "failed to change password")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
