// Package google implements driven.IdentityProvider with Google OAuth 2.0.
//
// Sign-in uses the authorisation-code flow with PKCE. Only the
// userinfo.email and openid scopes are requested; the identity is resolved
// through the oauth2/v2 userinfo API.
package google
