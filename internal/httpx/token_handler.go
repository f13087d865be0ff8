package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nroussel/orderdesk/internal/auth"
)

type TokenHandler struct {
	Users  UserSource
	Tokens *auth.Tokens
}

func (h *TokenHandler) Register(r chi.Router) {
	r.Post("/token", h.issue)
}

// issue exchanges form-encoded credentials for a bearer token.
func (h *TokenHandler) issue(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("invalid form"))
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, auth.ErrInvalidCredentials)
		return
	}

	u, err := h.Users.ByUsername(r.Context(), username)
	if err != nil {
		writeError(w, auth.ErrInvalidCredentials)
		return
	}
	if !auth.VerifyPassword(u.HashedPassword, password) {
		writeError(w, auth.ErrInvalidCredentials)
		return
	}

	token, err := h.Tokens.Issue(u.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}
