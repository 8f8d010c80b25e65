package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func newTestProvider(t *testing.T, userInfo http.HandlerFunc) *GoogleProvider {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse token form: %v", err)
		}
		if r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", userInfo)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewGoogleProvider("client", "secret", "http://localhost/login/google/authorized",
		WithEndpoint(oauth2.Endpoint{
			AuthURL:  server.URL + "/auth",
			TokenURL: server.URL + "/token",
		}),
		WithUserInfoURL(server.URL+"/userinfo"),
	)
}

func TestAuthCodeURLCarriesState(t *testing.T) {
	p := NewGoogleProvider("client", "secret", "http://localhost/cb")
	u, err := url.Parse(p.AuthCodeURL("abc"))
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	if q.Get("state") != "abc" {
		t.Errorf("expected state abc, got %q", q.Get("state"))
	}
	if q.Get("client_id") != "client" {
		t.Errorf("expected client_id, got %q", q.Get("client_id"))
	}
	if !strings.Contains(q.Get("scope"), "userinfo.email") {
		t.Errorf("expected email scope, got %q", q.Get("scope"))
	}
}

func TestExchangeAndEmail(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(GoogleUserInfo{ID: "1", Email: "a@x.com", VerifiedEmail: true})
	})
	ctx := context.Background()

	token, err := p.Exchange(ctx, "good-code")
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	email, err := p.Email(ctx, token)
	if err != nil {
		t.Fatalf("Email failed: %v", err)
	}
	if email != "a@x.com" {
		t.Errorf("expected a@x.com, got %q", email)
	}
}

func TestExchangeRejectsBadCode(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {})
	if _, err := p.Exchange(context.Background(), "bad-code"); err == nil {
		t.Error("expected exchange error")
	}
}

func TestEmailNonSuccessIsUpstreamFailure(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})
	_, err := p.Email(context.Background(), &oauth2.Token{AccessToken: "test-token"})
	if !errors.Is(err, ErrUpstreamAuth) {
		t.Errorf("expected ErrUpstreamAuth, got %v", err)
	}
}

func TestGenerateStateTokenIsRandom(t *testing.T) {
	a, err := GenerateStateToken()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GenerateStateToken()
	if a == b || len(a) == 0 {
		t.Errorf("expected distinct non-empty tokens, got %q and %q", a, b)
	}
}
