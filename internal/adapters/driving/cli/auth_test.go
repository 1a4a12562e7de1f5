package cli

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// stubBrowser replaces openBrowser for the duration of a test.
func stubBrowser(t *testing.T, fn func(url string) error) {
	t.Helper()
	original := openBrowser
	openBrowser = fn
	t.Cleanup(func() { openBrowser = original })
}

func TestAuthCmd_NotConfigured(t *testing.T) {
	setupTestServices(t)

	for _, sub := range []string{"login", "logout", "status"} {
		t.Run(sub, func(t *testing.T) {
			_, err := execute(t, "auth", sub)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "auth service not configured")
		})
	}
}

func TestAuthLogin_Disabled(t *testing.T) {
	setupTestServices(t)
	SetAuthService(&MockAuthService{EnabledValue: false})

	out, err := execute(t, "auth", "login")

	require.NoError(t, err)
	assert.Contains(t, out, "Sign-in is disabled")
}

func TestAuthLogin_CompletesWithCallback(t *testing.T) {
	setupTestServices(t)

	var gotCode string
	var redirect string
	SetAuthService(&MockAuthService{
		EnabledValue: true,
		BeginLoginFunc: func(redirectURI string) (*domain.LoginRequest, error) {
			redirect = redirectURI
			return &domain.LoginRequest{
				AuthURL:     "https://accounts.example.com/auth",
				RedirectURI: redirectURI,
				State:       "xyz",
			}, nil
		},
		CompleteLoginFunc: func(_ context.Context, req *domain.LoginRequest, code string) (domain.User, error) {
			gotCode = code
			assert.Equal(t, "xyz", req.State)
			return domain.User{Email: "ana@example.com", Name: "Ana"}, nil
		},
	})

	stubBrowser(t, func(url string) error {
		assert.Equal(t, "https://accounts.example.com/auth", url)
		callback := strings.Replace(redirect, "localhost", "127.0.0.1", 1) + "?state=xyz&code=abc"
		go func() {
			resp, err := http.Get(callback) //nolint:noctx // test helper
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
		return nil
	})

	out, err := execute(t, "auth", "login")
	require.NoError(t, err)

	assert.Equal(t, "abc", gotCode)
	assert.Contains(t, redirect, "/callback")
	assert.Contains(t, out, "https://accounts.example.com/auth")
	assert.Contains(t, out, "Signed in as Ana <ana@example.com>")
}

func TestAuthLogin_RejectedUser(t *testing.T) {
	setupTestServices(t)

	var redirect string
	SetAuthService(&MockAuthService{
		EnabledValue: true,
		BeginLoginFunc: func(redirectURI string) (*domain.LoginRequest, error) {
			redirect = redirectURI
			return &domain.LoginRequest{AuthURL: "https://accounts.example.com/auth", State: "s"}, nil
		},
		CompleteLoginFunc: func(context.Context, *domain.LoginRequest, string) (domain.User, error) {
			return domain.User{}, domain.ErrNotAuthorized
		},
	})
	stubBrowser(t, func(string) error {
		go func() {
			resp, err := http.Get(strings.Replace(redirect, "localhost", "127.0.0.1", 1) + "?state=s&code=c") //nolint:noctx // test helper
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
		return errors.New("no browser")
	})

	_, err := execute(t, "auth", "login")

	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.Contains(t, err.Error(), "not allowed")
}

func TestAuthLogin_TimesOut(t *testing.T) {
	setupTestServices(t)
	SetAuthService(&MockAuthService{EnabledValue: true})
	stubBrowser(t, func(string) error { return nil })

	original := loginTimeout
	loginTimeout = 50 * time.Millisecond
	defer func() { loginTimeout = original }()

	_, err := execute(t, "auth", "login")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAuthLogout(t *testing.T) {
	setupTestServices(t)
	auth := &MockAuthService{EnabledValue: true}
	SetAuthService(auth)

	out, err := execute(t, "auth", "logout")

	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")
	assert.Equal(t, 1, auth.LogoutCalls)
}

func TestAuthStatus(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		setupTestServices(t)
		SetAuthService(&MockAuthService{})

		out, err := execute(t, "auth", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "Sign-in: disabled")
	})

	t.Run("not signed in", func(t *testing.T) {
		setupTestServices(t)
		SetAuthService(&MockAuthService{EnabledValue: true})

		out, err := execute(t, "auth", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "not signed in")
	})

	t.Run("signed in and allowed", func(t *testing.T) {
		setupTestServices(t)
		user := domain.User{Email: "ana@example.com"}
		SetAuthService(&MockAuthService{
			EnabledValue: true,
			CurrentFunc:  func(context.Context) (domain.User, error) { return user, nil },
			RequireFunc:  func(context.Context) (domain.User, error) { return user, nil },
		})

		out, err := execute(t, "auth", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "User:    ana@example.com")
		assert.Contains(t, out, "Access:  allowed")
	})

	t.Run("signed in but not allowed", func(t *testing.T) {
		setupTestServices(t)
		SetAuthService(&MockAuthService{
			EnabledValue: true,
			CurrentFunc: func(context.Context) (domain.User, error) {
				return domain.User{Email: "eve@example.com"}, nil
			},
			RequireFunc: func(context.Context) (domain.User, error) {
				return domain.User{}, domain.ErrNotAuthorized
			},
		})

		out, err := execute(t, "auth", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "Access:  denied")
	})
}

func TestDescribeUser(t *testing.T) {
	assert.Equal(t, "Ana <ana@example.com>", describeUser(domain.User{Name: "Ana", Email: "ana@example.com"}))
	assert.Equal(t, "ana@example.com", describeUser(domain.User{Email: "ana@example.com"}))
}
