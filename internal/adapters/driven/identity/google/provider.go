package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	oauthapi "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.IdentityProvider = (*Provider)(nil)

// Scopes requested at sign-in.
var Scopes = []string{
	oauthapi.OpenIDScope,
	oauthapi.UserinfoEmailScope,
	oauthapi.UserinfoProfileScope,
}

// Provider signs users in with their Google account.
type Provider struct {
	clientID     string
	clientSecret string
	endpoint     oauth2.Endpoint
	apiEndpoint  string
	httpClient   *http.Client
}

// Option configures a Provider.
type Option func(*Provider)

// WithEndpoint overrides the OAuth authorisation and token URLs.
func WithEndpoint(e oauth2.Endpoint) Option {
	return func(p *Provider) {
		p.endpoint = e
	}
}

// WithAPIEndpoint overrides the base URL of the userinfo API.
func WithAPIEndpoint(url string) Option {
	return func(p *Provider) {
		p.apiEndpoint = url
	}
}

// WithHTTPClient sets the client used for token and API requests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// NewProvider creates a provider for an OAuth client registered in the
// Google Cloud console.
func NewProvider(clientID, clientSecret string, opts ...Option) *Provider {
	p := &Provider{
		clientID:     clientID,
		clientSecret: clientSecret,
		endpoint:     googleoauth.Endpoint,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) config(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		Endpoint:     p.endpoint,
		RedirectURL:  redirectURI,
		Scopes:       Scopes,
	}
}

func (p *Provider) context(ctx context.Context) context.Context {
	if p.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// AuthCodeURL builds the consent URL. Offline access is requested so the
// token can be refreshed without another browser round trip.
func (p *Provider) AuthCodeURL(redirectURI, state, codeChallenge string) string {
	return p.config(redirectURI).AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Exchange trades the authorisation code for a token.
func (p *Provider) Exchange(ctx context.Context, code, redirectURI, codeVerifier string) (*domain.Token, error) {
	tok, err := p.config(redirectURI).Exchange(p.context(ctx), code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", mapError(err))
	}
	return fromOAuth(tok), nil
}

// UserInfo looks up the account behind token, refreshing it if expired.
func (p *Provider) UserInfo(ctx context.Context, token *domain.Token) (domain.User, *domain.Token, error) {
	if token == nil {
		return domain.User{}, nil, domain.ErrNotAuthenticated
	}

	ctx = p.context(ctx)
	ts := p.config("").TokenSource(ctx, toOAuth(token))

	opts := []option.ClientOption{option.WithTokenSource(ts)}
	if p.apiEndpoint != "" {
		opts = append(opts, option.WithEndpoint(p.apiEndpoint))
	}
	svc, err := oauthapi.NewService(ctx, opts...)
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("create userinfo client: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return domain.User{}, nil, mapError(err)
	}
	if info.Email == "" {
		return domain.User{}, nil, fmt.Errorf("%w: account has no email address", domain.ErrNotAuthorized)
	}
	if info.VerifiedEmail != nil && !*info.VerifiedEmail {
		return domain.User{}, nil, fmt.Errorf("%w: email %s is not verified", domain.ErrNotAuthorized, info.Email)
	}

	current := token
	if tok, err := ts.Token(); err == nil && tok.AccessToken != token.AccessToken {
		current = fromOAuth(tok)
		if current.RefreshToken == "" {
			current.RefreshToken = token.RefreshToken
		}
	}

	return domain.User{Email: info.Email, Name: info.Name}, current, nil
}

// mapError turns credential failures into domain.ErrNotAuthenticated.
func mapError(err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return fmt.Errorf("%w: %s", domain.ErrNotAuthenticated, describeRetrieve(rerr))
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w", domain.ErrNotAuthenticated, err)
	}
	return err
}

func describeRetrieve(e *oauth2.RetrieveError) string {
	switch {
	case e.ErrorCode != "" && e.ErrorDescription != "":
		return e.ErrorCode + " - " + e.ErrorDescription
	case e.ErrorCode != "":
		return e.ErrorCode
	case e.Response != nil:
		return e.Response.Status
	default:
		return "token request failed"
	}
}

func toOAuth(t *domain.Token) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

func fromOAuth(t *oauth2.Token) *domain.Token {
	return &domain.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}
