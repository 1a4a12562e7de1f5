package driven

import (
	"context"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// IdentityProvider is the external sign-in service.
// Backed by Google OAuth 2.0 with PKCE.
type IdentityProvider interface {
	// AuthCodeURL builds the consent URL for an authorisation-code login.
	AuthCodeURL(redirectURI, state, codeChallenge string) string

	// Exchange trades an authorisation code for a token.
	Exchange(ctx context.Context, code, redirectURI, codeVerifier string) (*domain.Token, error)

	// UserInfo resolves the identity the token belongs to.
	// The returned token differs from the input when it was refreshed.
	UserInfo(ctx context.Context, token *domain.Token) (domain.User, *domain.Token, error)
}

// TokenStore persists the signed-in user's token.
type TokenStore interface {
	// Load returns the stored token.
	// Returns domain.ErrNotFound if no token is stored.
	Load(ctx context.Context) (*domain.Token, error)

	// Save stores the token, replacing any previous one.
	Save(ctx context.Context, token *domain.Token) error

	// Delete removes the stored token. Deleting when none is stored is not
	// an error.
	Delete(ctx context.Context) error
}
