package identity

import (
	"context"
	"fmt"

	"github.com/opencourse/campus/pkg/observability"
)

// Bridge resolves inbound cookie snapshots to identities. Every resolution is
// a fresh provider call; nothing is cached across requests.
type Bridge struct {
	provider Provider
	logger   *observability.Logger
}

// NewBridge creates a session bridge over the given provider
func NewBridge(provider Provider, logger *observability.Logger) *Bridge {
	return &Bridge{
		provider: provider,
		logger:   logger,
	}
}

// AuthCodeURL returns the provider's authorization URL for the state nonce
func (b *Bridge) AuthCodeURL(state string) string {
	return b.provider.AuthCodeURL(state)
}

// Resolve translates the inbound cookie snapshot into the caller's Identity
// plus the cookie mutations the handler must apply to its outbound response.
// A nil Identity means anonymous. Provider failures resolve to anonymous and
// never propagate: an unreachable provider must not take down page serving.
func (b *Bridge) Resolve(ctx context.Context, snap CookieSnapshot) (*Identity, []CookieMutation) {
	session := SessionFromSnapshot(snap)
	if session == nil {
		// No access token; a lone refresh token can still recover the session.
		if refresh := snap[RefreshTokenCookie]; refresh != "" {
			return b.resolveViaRefresh(ctx, refresh)
		}
		return nil, nil
	}

	ident, err := b.provider.CurrentUser(ctx, session)
	if err == nil {
		return ident, nil
	}

	// The access token may simply have expired; try the refresh token before
	// giving up on the caller.
	if refresh := snap[RefreshTokenCookie]; refresh != "" {
		b.logger.WithError(err).Debug("session resolution failed, attempting refresh")
		return b.resolveViaRefresh(ctx, refresh)
	}

	b.logger.WithError(err).Debug("session resolution failed, treating as anonymous")
	return nil, nil
}

// resolveViaRefresh exchanges a refresh token for a replacement session and
// resolves the identity from it. The returned mutations carry the refreshed
// cookie set; if the handler drops them, the next request repeats the refresh.
func (b *Bridge) resolveViaRefresh(ctx context.Context, refreshToken string) (*Identity, []CookieMutation) {
	session, err := b.provider.Refresh(ctx, refreshToken)
	if err != nil {
		b.logger.WithError(err).Debug("session refresh failed, treating as anonymous")
		return nil, nil
	}

	ident, err := b.provider.CurrentUser(ctx, session)
	if err != nil {
		b.logger.WithError(err).Debug("refreshed session resolution failed, treating as anonymous")
		return nil, nil
	}

	return ident, SessionMutations(session)
}

// Establish completes a code exchange and returns the identity together with
// the cookie mutations that persist the new session. Unlike Resolve, failures
// here are returned to the caller: the callback endpoint must distinguish a
// failed exchange from a failed user fetch.
func (b *Bridge) Establish(ctx context.Context, code string) (*Identity, []CookieMutation, error) {
	session, err := b.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	ident, err := b.provider.CurrentUser(ctx, session)
	if err != nil {
		return nil, nil, err
	}

	return ident, SessionMutations(session), nil
}

// PasswordAuthenticator is implemented by providers that accept a direct
// password grant.
type PasswordAuthenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
}

// EstablishWithPassword signs in with forwarded credentials. Like Establish,
// failures are returned so the sign-in form can surface them.
func (b *Bridge) EstablishWithPassword(ctx context.Context, email, password string) (*Identity, []CookieMutation, error) {
	pa, ok := b.provider.(PasswordAuthenticator)
	if !ok {
		return nil, nil, fmt.Errorf("provider does not support password sign-in")
	}

	session, err := pa.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	ident, err := b.provider.CurrentUser(ctx, session)
	if err != nil {
		return nil, nil, err
	}

	return ident, SessionMutations(session), nil
}

// SignOut invalidates the session at the provider and returns the cookie
// mutations that clear it locally. Provider errors are logged, not returned:
// the local clear always proceeds.
func (b *Bridge) SignOut(ctx context.Context, snap CookieSnapshot) []CookieMutation {
	if session := SessionFromSnapshot(snap); session != nil {
		if err := b.provider.SignOut(ctx, session); err != nil {
			b.logger.WithError(err).Warn("provider sign-out failed")
		}
	}
	return ClearSessionMutations()
}
