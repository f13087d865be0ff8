package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ctxKey struct{}

// Subject returns the authenticated username, or "" outside the middleware.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}

// Middleware rejects requests without a valid bearer token and puts the
// subject on the request context.
func (t *Tokens) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(raw, prefix) {
			unauthorized(w)
			return
		}
		subject, err := t.Verify(strings.TrimSpace(raw[len(prefix):]))
		if err != nil {
			unauthorized(w)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
}
