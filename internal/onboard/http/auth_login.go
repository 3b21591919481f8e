package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/talentwire/onboard/internal/onboard/service"
	"github.com/talentwire/onboard/pkg/httpx"
	"github.com/talentwire/onboard/pkg/onboardapi"
	"github.com/talentwire/onboard/pkg/slogx"
)

type LoginHandler struct {
	AdminService *service.AdminService
}

// ServeHTTP godoc
//
//	@Summary		Admin Login
//	@Description	Authenticate an HR admin with email and password, returning a bearer session token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		onboardapi.LoginRequest	true	"Credentials"
//	@Success		200		{object}	onboardapi.LoginResponse	"access_token, token_type, expires_in"
//	@Failure		400		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	onboardapi.ErrorResponse	"error, error_description"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req onboardapi.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, onboardapi.ErrorCodeInvalidRequest, "email and password are required")
		return
	}

	result, err := h.AdminService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, onboardapi.ErrorCodeUnauthorized, "Invalid email or password")
			return
		}
		log.Error("login failed", "err", err)
		writeError(w, http.StatusInternalServerError, onboardapi.ErrorCodeServerError, "Failed to log in")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, onboardapi.LoginResponse{
		AccessToken: result.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(result.ExpiresAt).Seconds()),
		Name:        result.Admin.Name,
	})
}
