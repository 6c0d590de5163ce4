package httpapi

import (
	"net/http"

	"github.com/opsdeck/authd/internal/domain"
	"github.com/opsdeck/authd/internal/service"
	"github.com/opsdeck/authd/pkg/httpx"
)

type registerRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RegisterHandler creates a new user account.
//
//	POST /register
type RegisterHandler struct {
	AuthService *service.AuthService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.WrapError(domain.KindValidation, "invalid request body", err))
		return
	}

	u, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, u)
}

// loginRequest's username field carries either an email address or a
// username; the name is reused for both. The identifier alias is accepted
// for clients that spell it out.
type loginRequest struct {
	Username   string `json:"username"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (req loginRequest) identifier() string {
	if req.Username != "" {
		return req.Username
	}
	return req.Identifier
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// LoginHandler authenticates a user and issues a bearer token. The
// identifier matches either email or username.
//
//	POST /login
type LoginHandler struct {
	AuthService *service.AuthService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, domain.WrapError(domain.KindValidation, "invalid request body", err))
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.identifier(), req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{Token: res.Token, User: res.User})
}

// LogoutHandler deletes the session bound to the presented bearer token.
// Idempotent: a missing or unknown token still acknowledges.
//
//	POST /logout
type LogoutHandler struct {
	AuthService *service.AuthService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := httpx.BearerToken(r)

	if err := h.AuthService.Logout(r.Context(), token); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

type refreshResponse struct {
	Token string `json:"token"`
}

// RefreshHandler exchanges a live session's bearer token for a fresh one.
//
//	POST /refresh
type RefreshHandler struct {
	AuthService *service.AuthService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := httpx.BearerToken(r)

	newToken, err := h.AuthService.Refresh(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, refreshResponse{Token: newToken})
}
