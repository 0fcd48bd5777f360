package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/opencourse/campus/pkg/config"
)

// Provider is the contract with the external identity provider. Session
// tokens returned here are opaque; callers persist them as cookies and hand
// them back unmodified.
type Provider interface {
	// AuthCodeURL returns the provider's authorization endpoint URL for the
	// given state nonce.
	AuthCodeURL(state string) string

	// ExchangeCode exchanges an authorization code for a session
	ExchangeCode(ctx context.Context, code string) (*Session, error)

	// CurrentUser resolves the session to the caller's identity
	CurrentUser(ctx context.Context, session *Session) (*Identity, error)

	// Refresh obtains a replacement session from a refresh token
	Refresh(ctx context.Context, refreshToken string) (*Session, error)

	// SignOut invalidates the session at the provider, when supported
	SignOut(ctx context.Context, session *Session) error
}

// OIDCProvider implements Provider against an OpenID Connect issuer
type OIDCProvider struct {
	provider     *oidc.Provider
	verifier     *oidc.IDTokenVerifier
	oauth2Config *oauth2.Config
}

// NewOIDCProvider discovers the issuer and builds the OAuth2 configuration.
// The publishable key doubles as the OAuth client ID.
func NewOIDCProvider(ctx context.Context, cfg config.AuthConfig) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: cfg.AnonKey,
	})

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.AnonKey,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  cfg.RedirectURL,
		Scopes:       cfg.Scopes,
	}

	return &OIDCProvider{
		provider:     provider,
		verifier:     verifier,
		oauth2Config: oauth2Config,
	}, nil
}

// AuthCodeURL returns the authorization endpoint URL for the given state
func (p *OIDCProvider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ExchangeCode exchanges an authorization code for a session
func (p *OIDCProvider) ExchangeCode(ctx context.Context, code string) (*Session, error) {
	if code == "" {
		return nil, fmt.Errorf("missing authorization code")
	}

	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	return &Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}, nil
}

// CurrentUser resolves the session to the caller's identity via the
// provider's userinfo endpoint.
func (p *OIDCProvider) CurrentUser(ctx context.Context, session *Session) (*Identity, error) {
	if session == nil || session.AccessToken == "" {
		return nil, fmt.Errorf("no session")
	}

	userInfo, err := p.provider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: session.AccessToken,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}

	if userInfo.Subject == "" {
		return nil, fmt.Errorf("missing subject in userinfo")
	}

	return &Identity{
		ID:    userInfo.Subject,
		Email: userInfo.Email,
	}, nil
}

// SignInWithPassword forwards a password credential grant to the provider.
// Not part of Provider; only the password sign-in handler needs it.
func (p *OIDCProvider) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	token, err := p.oauth2Config.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}
	return &Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}, nil
}

// Refresh obtains a replacement session from a refresh token
func (p *OIDCProvider) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("no refresh token")
	}

	source := p.oauth2Config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}

	newRefresh := token.RefreshToken
	if newRefresh == "" {
		// Providers that do not rotate refresh tokens return an empty one.
		newRefresh = refreshToken
	}

	return &Session{
		AccessToken:  token.AccessToken,
		RefreshToken: newRefresh,
		ExpiresAt:    token.Expiry,
	}, nil
}

// SignOut invalidates the session. OIDC logout is provider-optional; the
// local cookie clear is what actually ends the browser session.
func (p *OIDCProvider) SignOut(ctx context.Context, session *Session) error {
	return nil
}
