package driving

import (
	"context"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// AuthService is the sign-in gate in front of the search surfaces.
type AuthService interface {
	// Enabled reports whether the gate is switched on.
	Enabled() bool

	// BeginLogin prepares an authorisation-code login whose callback is
	// delivered to redirectURI.
	BeginLogin(redirectURI string) (*domain.LoginRequest, error)

	// CompleteLogin exchanges the callback code, stores the token and
	// returns the signed-in user. Users outside the allow-list are
	// rejected with domain.ErrNotAuthorized and no token is stored.
	CompleteLogin(ctx context.Context, req *domain.LoginRequest, code string) (domain.User, error)

	// Logout removes the stored token.
	Logout(ctx context.Context) error

	// Current returns the signed-in user without applying the allow-list.
	// Returns domain.ErrNotAuthenticated when no valid token is stored.
	Current(ctx context.Context) (domain.User, error)

	// Require applies the gate. It returns domain.Anonymous when the gate is
	// disabled, domain.ErrNotAuthenticated when nobody is signed in and
	// domain.ErrNotAuthorized when the user is not allowed.
	Require(ctx context.Context) (domain.User, error)
}
