package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourse/campus/pkg/contextkeys"
	"github.com/opencourse/campus/pkg/identity"
	"github.com/opencourse/campus/pkg/observability"
)

func testLogger() *observability.Logger {
	return observability.NewLogger(observability.ErrorLevel, io.Discard)
}

func boundaryHandler(t *testing.T, reached *bool) http.Handler {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		w.WriteHeader(http.StatusOK)
	})
	return Boundary(DefaultBoundaryConfig(), testLogger(), nil)(inner)
}

func withIdentity(r *http.Request) *http.Request {
	ctx := contextkeys.WithIdentity(r.Context(), &identity.Identity{ID: "u1", Email: "u1@example.com"})
	return r.WithContext(ctx)
}

func TestBoundary_AnonymousDeepLinkRedirected(t *testing.T) {
	var reached bool
	handler := boundaryHandler(t, &reached)

	req := httptest.NewRequest("GET", "/dashboard/instructor/courses/42", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.False(t, reached)
	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	assert.Contains(t, loc, "/login")
	assert.Contains(t, loc, "reason=login_required")
}

func TestBoundary_AuthenticatedPassesThrough(t *testing.T) {
	var reached bool
	handler := boundaryHandler(t, &reached)

	req := withIdentity(httptest.NewRequest("GET", "/dashboard/student", nil))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBoundary_ExemptionsNeverRedirected(t *testing.T) {
	paths := []string{
		"/auth/callback",
		"/auth/callback?code=abc",
		"/static/app.css",
		"/favicon.ico",
		"/",
		"/courses",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			var reached bool
			handler := boundaryHandler(t, &reached)

			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.True(t, reached)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestBoundary_ExemptionWinsOverProtection(t *testing.T) {
	cfg := BoundaryConfig{
		ProtectedPrefixes: []string{"/"},
		ExemptPrefixes:    []string{"/auth/"},
		LoginPath:         "/login",
	}
	var reached bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})
	handler := Boundary(cfg, testLogger(), nil)(inner)

	req := httptest.NewRequest("GET", "/auth/callback", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.True(t, reached)
}
