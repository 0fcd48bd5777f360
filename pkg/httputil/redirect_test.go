package httputil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirectWithReason(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/dashboard/courses", nil)

	RedirectWithReason(rec, req, "/auth/sign-in", "login_required")

	assert.Equal(t, http.StatusSeeOther, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/auth/sign-in", loc.Path)
	assert.Equal(t, "login_required", loc.Query().Get(ReasonParam))
}

func TestRedirectWithError_PreservesExistingQuery(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	RedirectWithError(rec, req, "/auth/sign-in?next=%2Fdashboard", "profile save failed")

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", loc.Query().Get("next"))
	assert.Equal(t, "profile save failed", loc.Query().Get(ErrorParam))
}

func TestRedirectWithSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/courses", nil)

	RedirectWithSuccess(rec, req, "/dashboard/courses/c1", "updated")

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "updated", loc.Query().Get(SuccessParam))
}
