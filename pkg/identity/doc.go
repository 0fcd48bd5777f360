// Package identity resolves the caller's authenticated identity from opaque
// session cookies and manages the cookie round trip with the identity provider.
//
// # Session Bridge
//
// The Bridge translates an inbound request's cookie snapshot into an Identity
// plus a list of cookie mutations the handler must apply to its outbound
// response:
//
//	snap := identity.Snapshot(r)
//	ident, muts := bridge.Resolve(r.Context(), snap)
//	identity.ApplyCookies(w, muts)
//
// The snapshot is immutable and the mutation list is explicit: there is no
// ambient "current request" state. When a response writer is unavailable the
// mutations are simply dropped; reads still succeed.
//
// # Provider
//
// Provider is the contract with the external identity provider: exchanging an
// authorization code for a session, fetching the current user, refreshing an
// expired session, and signing out. OIDCProvider implements it on top of
// go-oidc and golang.org/x/oauth2. Session tokens are opaque to this package;
// it forwards them and persists whatever replacements the provider returns.
//
// Provider failures never escape the bridge boundary: an unreachable provider
// or malformed token resolves to anonymous.
package identity
