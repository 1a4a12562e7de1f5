package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

type fakeGoogle struct {
	t         *testing.T
	server    *httptest.Server
	email     string
	verified  bool
	tokenHits atomic.Int32
	lastForm  url.Values
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	f := &fakeGoogle{t: t, email: "ana@example.com", verified: true}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenHits.Add(1)
		require.NoError(t, r.ParseForm())
		f.lastForm = r.PostForm

		if r.PostForm.Get("code") == "bad" || r.PostForm.Get("refresh_token") == "revoked" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Bad Request"}`))
			return
		}

		access := "access-1"
		if r.PostForm.Get("grant_type") == "refresh_token" {
			access = "access-2"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  access,
			"refresh_token": "refresh-1",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	})
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth != "Bearer access-1" && auth != "Bearer access-2" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"email":          f.email,
			"verified_email": f.verified,
			"name":           "Ana",
		})
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGoogle) provider() *Provider {
	return NewProvider("client-id", "client-secret",
		WithEndpoint(oauth2.Endpoint{
			AuthURL:  f.server.URL + "/auth",
			TokenURL: f.server.URL + "/token",
		}),
		WithAPIEndpoint(f.server.URL+"/"),
		WithHTTPClient(f.server.Client()),
	)
}

func TestProvider_AuthCodeURL(t *testing.T) {
	p := NewProvider("client-id", "secret")

	raw := p.AuthCodeURL("http://localhost:18080/callback", "state-1", "challenge-1")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:18080/callback", q.Get("redirect_uri"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "challenge-1", q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Contains(t, q.Get("scope"), "userinfo.email")
}

func TestProvider_Exchange(t *testing.T) {
	f := newFakeGoogle(t)

	tok, err := f.provider().Exchange(context.Background(), "good", "http://localhost:18080/callback", "verifier-1")

	require.NoError(t, err)
	assert.Equal(t, "access-1", tok.AccessToken)
	assert.Equal(t, "refresh-1", tok.RefreshToken)
	assert.False(t, tok.Expiry.IsZero())
	assert.Equal(t, "verifier-1", f.lastForm.Get("code_verifier"))
	assert.Equal(t, "http://localhost:18080/callback", f.lastForm.Get("redirect_uri"))
}

func TestProvider_Exchange_Rejected(t *testing.T) {
	f := newFakeGoogle(t)

	_, err := f.provider().Exchange(context.Background(), "bad", "http://localhost/cb", "v")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestProvider_UserInfo(t *testing.T) {
	f := newFakeGoogle(t)
	tok := &domain.Token{AccessToken: "access-1", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}

	user, current, err := f.provider().UserInfo(context.Background(), tok)

	require.NoError(t, err)
	assert.Equal(t, domain.User{Email: "ana@example.com", Name: "Ana"}, user)
	assert.Same(t, tok, current)
	assert.Equal(t, int32(0), f.tokenHits.Load())
}

func TestProvider_UserInfo_RefreshesExpiredToken(t *testing.T) {
	f := newFakeGoogle(t)
	tok := &domain.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh-0",
		Expiry:       time.Now().Add(-time.Hour),
	}

	user, current, err := f.provider().UserInfo(context.Background(), tok)

	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	require.NotNil(t, current)
	assert.Equal(t, "access-2", current.AccessToken)
	assert.Equal(t, int32(1), f.tokenHits.Load())
	assert.Equal(t, "refresh-0", f.lastForm.Get("refresh_token"))
}

func TestProvider_UserInfo_Failures(t *testing.T) {
	f := newFakeGoogle(t)
	p := f.provider()
	ctx := context.Background()

	_, _, err := p.UserInfo(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, _, err = p.UserInfo(ctx, &domain.Token{AccessToken: "unknown", Expiry: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, _, err = p.UserInfo(ctx, &domain.Token{AccessToken: "x", RefreshToken: "revoked", Expiry: time.Now().Add(-time.Hour)})
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	f.verified = false
	_, _, err = p.UserInfo(ctx, &domain.Token{AccessToken: "access-1", Expiry: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}
