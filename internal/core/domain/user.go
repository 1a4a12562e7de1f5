package domain

import "time"

// User is the signed-in identity reported by the identity provider.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Anonymous is the user reported when the sign-in gate is disabled.
var Anonymous = User{Name: "anonymous"}

// IsAnonymous returns true if no identity is attached.
func (u User) IsAnonymous() bool {
	return u.Email == ""
}

// DisplayName returns the name, falling back to the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Token is an OAuth token held for the signed-in user.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// IsExpired reports whether the access token has expired at now.
// A zero expiry never expires.
func (t *Token) IsExpired(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return true
	}
	if t.Expiry.IsZero() {
		return false
	}
	return !now.Before(t.Expiry)
}

// LoginRequest carries the state of one authorisation-code login between
// building the consent URL and receiving the callback.
type LoginRequest struct {
	// AuthURL is the consent page the user must visit.
	AuthURL string
	// RedirectURI is the loopback callback registered for this login.
	RedirectURI string
	// State is the CSRF value echoed back by the provider.
	State string
	// CodeVerifier is the PKCE secret matching the challenge in AuthURL.
	CodeVerifier string
}
