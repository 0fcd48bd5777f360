package identity

import (
	"net/http"
	"time"
)

// Cookie names for the session token pair. The values are provider-issued and
// opaque; this package never inspects them.
const (
	AccessTokenCookie  = "campus-access-token"
	RefreshTokenCookie = "campus-refresh-token"
)

// Identity is the caller's authenticated principal for one request. It is
// produced fresh on every resolution and never cached across requests.
type Identity struct {
	ID    string
	Email string
}

// Session holds the provider-issued token pair for one caller
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the access token's lifetime has passed.
// A zero ExpiresAt means the provider did not report one; treat as live.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// CookieMutation is one cookie write the handler must apply to its outbound
// response. A MaxAge < 0 clears the cookie.
type CookieMutation struct {
	Name   string
	Value  string
	MaxAge int
}

// CookieSnapshot is an immutable view of the inbound request's cookies
type CookieSnapshot map[string]string

// Snapshot captures the request's cookies into an immutable snapshot
func Snapshot(r *http.Request) CookieSnapshot {
	snap := make(CookieSnapshot)
	for _, c := range r.Cookies() {
		snap[c.Name] = c.Value
	}
	return snap
}

// SessionFromSnapshot reconstructs the session token pair from cookies.
// Returns nil when no access token is present.
func SessionFromSnapshot(snap CookieSnapshot) *Session {
	access := snap[AccessTokenCookie]
	if access == "" {
		return nil
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: snap[RefreshTokenCookie],
	}
}

// SessionMutations returns the cookie writes that persist a session on the
// outbound response.
func SessionMutations(s *Session) []CookieMutation {
	maxAge := 0
	if !s.ExpiresAt.IsZero() {
		if d := time.Until(s.ExpiresAt); d > 0 {
			maxAge = int(d / time.Second)
		}
	}
	muts := []CookieMutation{
		{Name: AccessTokenCookie, Value: s.AccessToken, MaxAge: maxAge},
	}
	if s.RefreshToken != "" {
		// Refresh tokens outlive the access token; give them a long horizon.
		muts = append(muts, CookieMutation{Name: RefreshTokenCookie, Value: s.RefreshToken, MaxAge: 30 * 24 * 3600})
	}
	return muts
}

// ClearSessionMutations returns the cookie writes that delete the session
func ClearSessionMutations() []CookieMutation {
	return []CookieMutation{
		{Name: AccessTokenCookie, Value: "", MaxAge: -1},
		{Name: RefreshTokenCookie, Value: "", MaxAge: -1},
	}
}

// ApplyCookies applies cookie mutations to the outbound response. A nil
// writer means cookie writes are disallowed in this context; the mutations
// are skipped and the caller's read path is unaffected.
func ApplyCookies(w http.ResponseWriter, muts []CookieMutation) {
	if w == nil {
		return
	}
	for _, m := range muts {
		http.SetCookie(w, &http.Cookie{
			Name:     m.Name,
			Value:    m.Value,
			Path:     "/",
			MaxAge:   m.MaxAge,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
