package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/nroussel/orderdesk/internal/auth"
)

type fakeUserSource struct {
	users map[string]*auth.User
}

func (f *fakeUserSource) ByUsername(_ context.Context, username string) (*auth.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestTokenEndpoint(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	users := &fakeUserSource{users: map[string]*auth.User{
		"user": {ID: 1, Username: "user", HashedPassword: string(hash)},
	}}
	tokens := auth.NewTokens("secret", 30*time.Minute)

	r := NewRouter()
	th := &TokenHandler{Users: users, Tokens: tokens}
	th.Register(r)

	t.Run("valid credentials", func(t *testing.T) {
		rec := postForm(t, r, "/token", url.Values{"username": {"user"}, "password": {"password"}})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp["token_type"] != "bearer" {
			t.Errorf("token_type = %q", resp["token_type"])
		}
		sub, err := tokens.Verify(resp["access_token"])
		if err != nil || sub != "user" {
			t.Errorf("issued token does not verify: sub=%q err=%v", sub, err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := postForm(t, r, "/token", url.Values{"username": {"user"}, "password": {"nope"}})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := postForm(t, r, "/token", url.Values{"username": {"ghost"}, "password": {"password"}})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := postForm(t, r, "/token", url.Values{})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	tokens := auth.NewTokens("secret", 30*time.Minute)

	r := NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(tokens.Middleware)
		h := &OrdersHandler{Store: newFakeOrderStore(), Notifier: &fakeNotifier{}}
		h.Register(r)
	})

	rec := do(t, r, http.MethodGet, "/orders/", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without token", rec.Code)
	}

	token, err := tokens.Issue("user")
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/orders/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with token", rec.Code)
	}
}
