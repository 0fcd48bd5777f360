package middleware

import (
	"net/http"
	"strings"

	"github.com/opencourse/campus/pkg/httputil"
	"github.com/opencourse/campus/pkg/observability"
)

// BoundaryConfig describes the protected area of the route space.
type BoundaryConfig struct {
	// ProtectedPrefixes are path prefixes that require a resolved identity.
	ProtectedPrefixes []string
	// ExemptPrefixes are checked before protection and always pass
	// through, so the sign-in flow itself is never gated.
	ExemptPrefixes []string
	// ExemptPaths are exact-match passthroughs.
	ExemptPaths []string
	// LoginPath receives anonymous callers bounced off the boundary.
	LoginPath string
}

// DefaultBoundaryConfig protects the dashboard while leaving the auth
// flow and static assets reachable for anonymous callers.
func DefaultBoundaryConfig() BoundaryConfig {
	return BoundaryConfig{
		ProtectedPrefixes: []string{"/dashboard"},
		ExemptPrefixes:    []string{"/auth/", "/static/"},
		ExemptPaths:       []string{"/favicon.ico"},
		LoginPath:         "/login",
	}
}

// Boundary gates the protected prefix: anonymous requests under it are
// redirected to the login page with a reason, everything else passes
// through untouched. Exemptions win over protection so the auth
// callback can never be bounced into a redirect loop.
func Boundary(cfg BoundaryConfig, logger *observability.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.protects(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if IdentityFromContext(r.Context()) == nil {
				if metrics != nil {
					metrics.AuthDenialsTotal.WithLabelValues("login_required").Inc()
				}
				logger.WithField("path", r.URL.Path).Debug("anonymous request bounced at boundary")
				httputil.RedirectWithReason(w, r, cfg.LoginPath, "login_required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (c BoundaryConfig) protects(path string) bool {
	for _, p := range c.ExemptPaths {
		if path == p {
			return false
		}
	}
	for _, prefix := range c.ExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	for _, prefix := range c.ProtectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
