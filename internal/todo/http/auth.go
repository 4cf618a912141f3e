package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/taskboard/internal/todo/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/todosdk"
)

// AuthHandler serves registration and the token endpoints.
type AuthHandler struct {
	AuthService *service.AuthService
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req todosdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusCreated, user)
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req todosdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, pair)
}

// HandleRefresh treats an empty body as a missing token.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req todosdk.RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		writeError(w, r, err)
		return
	}

	if strings.TrimSpace(req.RefreshToken) == "" {
		httpx.WriteError(w, http.StatusUnauthorized, CodeNoRefreshToken, "refresh token is required")
		return
	}

	token, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, token)
}

// HandleLogout only acknowledges. Tokens stay valid until they expire.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	httpx.WriteMessage(w, http.StatusOK, "logged out")
}
