package services

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// mockIdentityProvider implements driven.IdentityProvider for testing.
type mockIdentityProvider struct {
	user        domain.User
	refreshed   *domain.Token
	exchangeErr error
	userInfoErr error

	gotVerifier string
	gotRedirect string
}

func (m *mockIdentityProvider) AuthCodeURL(redirectURI, state, codeChallenge string) string {
	q := url.Values{}
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	q.Set("code_challenge", codeChallenge)
	return "https://accounts.example.com/auth?" + q.Encode()
}

func (m *mockIdentityProvider) Exchange(_ context.Context, code, redirectURI, verifier string) (*domain.Token, error) {
	m.gotVerifier = verifier
	m.gotRedirect = redirectURI
	if m.exchangeErr != nil {
		return nil, m.exchangeErr
	}
	return &domain.Token{AccessToken: "access-" + code, RefreshToken: "refresh"}, nil
}

func (m *mockIdentityProvider) UserInfo(_ context.Context, _ *domain.Token) (domain.User, *domain.Token, error) {
	if m.userInfoErr != nil {
		return domain.User{}, nil, m.userInfoErr
	}
	return m.user, m.refreshed, nil
}

// mockTokenStore implements driven.TokenStore for testing.
type mockTokenStore struct {
	mu    sync.Mutex
	token *domain.Token
	err   error
}

func (m *mockTokenStore) Load(context.Context) (*domain.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.token == nil {
		return nil, domain.ErrNotFound
	}
	return m.token, nil
}

func (m *mockTokenStore) Save(_ context.Context, token *domain.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.token = token
	return nil
}

func (m *mockTokenStore) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = nil
	return m.err
}

func authSettings(allowed ...string) domain.AuthSettings {
	return domain.AuthSettings{
		Enabled:       true,
		ClientID:      "client",
		ClientSecret:  "secret",
		AllowedEmails: allowed,
	}
}

func TestAuthService_Disabled(t *testing.T) {
	svc := NewAuthService(domain.AuthSettings{}, nil, nil)

	assert.False(t, svc.Enabled())
	user, err := svc.Require(context.Background())
	require.NoError(t, err)
	assert.True(t, user.IsAnonymous())
	assert.NoError(t, svc.Logout(context.Background()))
}

func TestAuthService_NotConfigured(t *testing.T) {
	svc := NewAuthService(domain.AuthSettings{Enabled: true}, nil, nil)

	_, err := svc.BeginLogin("http://localhost:18600/callback")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = svc.Require(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestAuthService_LoginFlow(t *testing.T) {
	ctx := context.Background()
	provider := &mockIdentityProvider{user: domain.User{Email: "ana@example.com", Name: "Ana"}}
	tokens := &mockTokenStore{}
	svc := NewAuthService(authSettings("ana@example.com"), provider, tokens)

	req, err := svc.BeginLogin("http://localhost:18600/callback")
	require.NoError(t, err)
	assert.NotEmpty(t, req.State)
	assert.NotEmpty(t, req.CodeVerifier)

	u, err := url.Parse(req.AuthURL)
	require.NoError(t, err)
	assert.Equal(t, req.State, u.Query().Get("state"))
	assert.Equal(t, generateCodeChallenge(req.CodeVerifier), u.Query().Get("code_challenge"))
	assert.Equal(t, "http://localhost:18600/callback", u.Query().Get("redirect_uri"))

	user, err := svc.CompleteLogin(ctx, req, "code123")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, req.CodeVerifier, provider.gotVerifier)
	assert.Equal(t, req.RedirectURI, provider.gotRedirect)
	require.NotNil(t, tokens.token)
	assert.Equal(t, "access-code123", tokens.token.AccessToken)

	current, err := svc.Require(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana", current.DisplayName())
}

func TestAuthService_CompleteLogin_RejectsDisallowed(t *testing.T) {
	provider := &mockIdentityProvider{user: domain.User{Email: "eve@example.com"}}
	tokens := &mockTokenStore{}
	svc := NewAuthService(authSettings("ana@example.com"), provider, tokens)

	req, err := svc.BeginLogin("http://localhost:1/callback")
	require.NoError(t, err)

	_, err = svc.CompleteLogin(context.Background(), req, "code")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.Nil(t, tokens.token)
}

func TestAuthService_CompleteLogin_Errors(t *testing.T) {
	boom := errors.New("invalid_grant")
	svc := NewAuthService(authSettings(), &mockIdentityProvider{exchangeErr: boom}, &mockTokenStore{})

	_, err := svc.CompleteLogin(context.Background(), &domain.LoginRequest{}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CompleteLogin(context.Background(), &domain.LoginRequest{}, "code")
	assert.ErrorIs(t, err, boom)
}

func TestAuthService_Require_NotSignedIn(t *testing.T) {
	svc := NewAuthService(authSettings(), &mockIdentityProvider{}, &mockTokenStore{})

	_, err := svc.Require(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestAuthService_Require_RevokedToken(t *testing.T) {
	boom := errors.New("401 Unauthorized")
	tokens := &mockTokenStore{token: &domain.Token{AccessToken: "old"}}
	svc := NewAuthService(authSettings(), &mockIdentityProvider{userInfoErr: boom}, tokens)

	_, err := svc.Require(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.ErrorIs(t, err, boom)
}

func TestAuthService_Require_AllowList(t *testing.T) {
	tokens := &mockTokenStore{token: &domain.Token{AccessToken: "a"}}
	provider := &mockIdentityProvider{user: domain.User{Email: "eve@example.com"}}
	svc := NewAuthService(authSettings("ana@example.com"), provider, tokens)

	user, err := svc.Require(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.Equal(t, "eve@example.com", user.Email)

	// Current ignores the allow-list
	user, err = svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "eve@example.com", user.Email)
}

func TestAuthService_Current_SavesRefreshedToken(t *testing.T) {
	tokens := &mockTokenStore{token: &domain.Token{AccessToken: "old"}}
	provider := &mockIdentityProvider{
		user:      domain.User{Email: "ana@example.com"},
		refreshed: &domain.Token{AccessToken: "new"},
	}
	svc := NewAuthService(authSettings(), provider, tokens)

	_, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", tokens.token.AccessToken)
}

func TestAuthService_Logout(t *testing.T) {
	tokens := &mockTokenStore{token: &domain.Token{AccessToken: "a"}}
	svc := NewAuthService(authSettings(), &mockIdentityProvider{}, tokens)

	require.NoError(t, svc.Logout(context.Background()))
	assert.Nil(t, tokens.token)

	tokens.err = errors.New("read-only")
	assert.Error(t, svc.Logout(context.Background()))
}
