package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmartins/askgate/internal/common"
	"github.com/dmartins/askgate/internal/server/accounts"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	OK    bool             `json:"ok"`
	Token string           `json:"token"`
	User  accounts.Summary `json:"user"`
}

type askRequest struct {
	Question string         `json:"question"`
	Context  map[string]any `json:"context,omitempty"`
}

type errorResponse struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		s.logger.Warn(r.Context(), "login failed", "login", req.Login, "reason", err.Error())
		writeFailure(w, err)
		return
	}

	s.logger.Info(r.Context(), "login succeeded", "account_id", result.Account.ID)
	writeJSON(w, http.StatusOK, loginResponse{OK: true, Token: result.Token, User: result.Account})
}

func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	account, err := s.auth.ProvisionDefaultAdmin(r.Context())
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			writeError(w, http.StatusConflict, "admin already exists")
			return
		}
		s.logger.Error(r.Context(), "admin provisioning failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.logger.Info(r.Context(), "admin provisioned", "account_id", account.ID)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user": identity})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question must not be empty")
		return
	}

	writeJSON(w, http.StatusOK, s.ask.Answer(identity, req.Question))
}

// writeFailure maps a business failure to its HTTP status. Unrecognized
// errors are treated as internal and never leak their message.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusUnauthorized, "account not found")
	case errors.Is(err, common.ErrBadCredentials):
		writeError(w, http.StatusUnauthorized, "invalid password")
	case errors.Is(err, common.ErrInactive):
		writeError(w, http.StatusForbidden, "account inactive")
	case errors.Is(err, common.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, common.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, common.ErrConflict):
		writeError(w, http.StatusConflict, "already exists")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{OK: false, Detail: detail})
}
