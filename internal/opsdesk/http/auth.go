package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/service"
	"github.com/aussiebroadwan/opsdesk/pkg/httpx"
)

type SigninHandler struct {
	AuthService *service.AuthService
}

type signinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signinResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	UserID      string `json:"user_id"`
}

// ServeHTTP handles username/password signin.
//
//	@Summary		Sign in
//	@Description	Exchanges username and password for a bearer token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		signinRequest	true	"Credentials"
//	@Success		200		{object}	signinResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Wrong password"
//	@Failure		403		{object}	httpx.ErrorResponse	"Account blocked"
//	@Failure		404		{object}	httpx.ErrorResponse	"Unknown username"
//	@Router			/v1/auth/signin [post]
func (h *SigninHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	res, err := h.AuthService.Signin(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, signinResponse{
		AccessToken: res.Token,
		TokenType:   "Bearer",
		Username:    res.Username,
		Role:        string(res.Role),
		UserID:      res.UserID,
	})
}

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

type bootstrapRequest struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ServeHTTP creates the first admin account on a fresh deployment.
//
//	@Summary		Bootstrap the first admin
//	@Description	Creates the initial admin user. Refuses once any user exists.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		bootstrapRequest	true	"Bootstrap payload"
//	@Success		201		{object}	userResponse
//	@Failure		403		{object}	httpx.ErrorResponse	"Invalid bootstrap token"
//	@Failure		409		{object}	httpx.ErrorResponse	"Already bootstrapped"
//	@Router			/v1/bootstrap [post]
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req bootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	admin, err := h.BootstrapService.Bootstrap(r.Context(), req.Token, req.Username, req.Email, req.Name, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(admin))
}
