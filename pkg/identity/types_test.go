package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_CapturesRequestCookies(t *testing.T) {
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "tok-1"})
	req.AddCookie(&http.Cookie{Name: "unrelated", Value: "x"})

	snap := Snapshot(req)

	assert.Equal(t, "tok-1", snap[AccessTokenCookie])
	assert.Equal(t, "x", snap["unrelated"])
}

func TestSessionFromSnapshot(t *testing.T) {
	tests := []struct {
		name string
		snap CookieSnapshot
		want *Session
	}{
		{
			name: "no cookies",
			snap: CookieSnapshot{},
			want: nil,
		},
		{
			name: "refresh token alone is not a session",
			snap: CookieSnapshot{RefreshTokenCookie: "r"},
			want: nil,
		},
		{
			name: "full token pair",
			snap: CookieSnapshot{AccessTokenCookie: "a", RefreshTokenCookie: "r"},
			want: &Session{AccessToken: "a", RefreshToken: "r"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SessionFromSnapshot(tt.snap))
		})
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()

	live := &Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, live.Expired(now))

	stale := &Session{ExpiresAt: now.Add(-time.Minute)}
	assert.True(t, stale.Expired(now))

	unknown := &Session{}
	assert.False(t, unknown.Expired(now))
}

func TestApplyCookies_WritesSetCookieHeaders(t *testing.T) {
	rec := httptest.NewRecorder()

	ApplyCookies(rec, []CookieMutation{
		{Name: AccessTokenCookie, Value: "tok-1", MaxAge: 3600},
		{Name: RefreshTokenCookie, Value: "", MaxAge: -1},
	})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	assert.Equal(t, "tok-1", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	assert.Negative(t, cookies[1].MaxAge)
}

func TestApplyCookies_NilWriterIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		ApplyCookies(nil, SessionMutations(&Session{AccessToken: "a"}))
	})
}

func TestClearSessionMutations(t *testing.T) {
	muts := ClearSessionMutations()
	require.Len(t, muts, 2)
	for _, m := range muts {
		assert.Empty(t, m.Value)
		assert.Negative(t, m.MaxAge)
	}
}
