package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driven"
	"github.com/custodia-labs/notesearch/internal/core/ports/driving"
	"github.com/custodia-labs/notesearch/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService gates the search surfaces behind a signed-in, allow-listed
// identity. The identity provider and token store may be nil when the gate
// is disabled.
type AuthService struct {
	settings domain.AuthSettings
	provider driven.IdentityProvider
	tokens   driven.TokenStore
}

// NewAuthService creates an auth service.
func NewAuthService(
	settings domain.AuthSettings,
	provider driven.IdentityProvider,
	tokens driven.TokenStore,
) *AuthService {
	return &AuthService{
		settings: settings,
		provider: provider,
		tokens:   tokens,
	}
}

// Enabled reports whether the gate is switched on.
func (s *AuthService) Enabled() bool {
	return s.settings.Enabled
}

// BeginLogin builds the consent URL with a fresh state and PKCE verifier.
func (s *AuthService) BeginLogin(redirectURI string) (*domain.LoginRequest, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	verifier, err := generateCodeVerifier()
	if err != nil {
		return nil, fmt.Errorf("generate code verifier: %w", err)
	}
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	return &domain.LoginRequest{
		AuthURL:      s.provider.AuthCodeURL(redirectURI, state, generateCodeChallenge(verifier)),
		RedirectURI:  redirectURI,
		State:        state,
		CodeVerifier: verifier,
	}, nil
}

// CompleteLogin exchanges the code and stores the token if the user is
// allowed.
func (s *AuthService) CompleteLogin(ctx context.Context, req *domain.LoginRequest, code string) (domain.User, error) {
	if err := s.ready(); err != nil {
		return domain.User{}, err
	}
	if req == nil || code == "" {
		return domain.User{}, fmt.Errorf("%w: missing authorisation code", domain.ErrInvalidInput)
	}

	token, err := s.provider.Exchange(ctx, code, req.RedirectURI, req.CodeVerifier)
	if err != nil {
		return domain.User{}, fmt.Errorf("exchange code: %w", err)
	}

	user, refreshed, err := s.provider.UserInfo(ctx, token)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user info: %w", err)
	}
	if refreshed != nil {
		token = refreshed
	}

	if !s.settings.Allows(user.Email) {
		logger.Warn("auth: %s is not on the allow-list", user.Email)
		return user, fmt.Errorf("%w: %s", domain.ErrNotAuthorized, user.Email)
	}

	if err := s.tokens.Save(ctx, token); err != nil {
		return user, fmt.Errorf("save token: %w", err)
	}
	logger.Info("auth: signed in as %s", user.Email)
	return user, nil
}

// Logout removes the stored token.
func (s *AuthService) Logout(ctx context.Context) error {
	if s.tokens == nil {
		return nil
	}
	if err := s.tokens.Delete(ctx); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Current returns the user the stored token belongs to.
func (s *AuthService) Current(ctx context.Context) (domain.User, error) {
	if err := s.ready(); err != nil {
		return domain.User{}, err
	}

	token, err := s.tokens.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrNotAuthenticated
		}
		return domain.User{}, fmt.Errorf("load token: %w", err)
	}

	user, refreshed, err := s.provider.UserInfo(ctx, token)
	if err != nil {
		logger.Debug("auth: user info failed: %v", err)
		return domain.User{}, fmt.Errorf("%w: %w", domain.ErrNotAuthenticated, err)
	}
	if refreshed != nil && refreshed.AccessToken != token.AccessToken {
		if err := s.tokens.Save(ctx, refreshed); err != nil {
			logger.Debug("auth: saving refreshed token failed: %v", err)
		}
	}
	return user, nil
}

// Require applies the gate.
func (s *AuthService) Require(ctx context.Context) (domain.User, error) {
	if !s.settings.Enabled {
		return domain.Anonymous, nil
	}

	user, err := s.Current(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if !s.settings.Allows(user.Email) {
		return user, fmt.Errorf("%w: %s", domain.ErrNotAuthorized, user.Email)
	}
	return user, nil
}

func (s *AuthService) ready() error {
	if s.provider == nil || s.tokens == nil || !s.settings.IsConfigured() {
		return &domain.ConfigurationError{
			Setting: "auth.client_id",
			Hint:    "run: notesearch settings set auth.client_id <id> and auth.client_secret <secret>",
		}
	}
	return nil
}
