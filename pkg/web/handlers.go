package web

import (
	"errors"
	"net/http"

	"github.com/opencourse/campus/pkg/authz"
	"github.com/opencourse/campus/pkg/httputil"
	"github.com/opencourse/campus/pkg/middleware"
	"github.com/opencourse/campus/pkg/profile"
)

// requireRole runs the role guard for the current request. On denial it
// writes the redirect and returns ok=false; infrastructure errors become
// a 500.
func (s *Server) requireRole(w http.ResponseWriter, r *http.Request, minRole profile.Role) (*profile.Profile, bool) {
	ident := middleware.IdentityFromContext(r.Context())
	prof, err := s.guard.Require(r.Context(), ident, minRole)
	if err != nil {
		s.writeGuardError(w, r, err)
		return nil, false
	}
	return prof, true
}

func (s *Server) writeGuardError(w http.ResponseWriter, r *http.Request, err error) {
	if denial, ok := authz.AsDenial(err); ok {
		httputil.RedirectWithReason(w, r, denial.RedirectTo, denial.Reason)
		return
	}
	s.logger.WithError(err).Error("authorization check failed")
	httputil.WriteInternalError(w, err)
}

// requireOwner re-checks ownership inside a mutating action. A collapsed
// not-found is written as 404 for every caller.
func (s *Server) requireOwner(w http.ResponseWriter, r *http.Request, prof *profile.Profile, courseID string) bool {
	err := authz.RequireOwner(r.Context(), s.courses, prof, courseID)
	if err == nil {
		return true
	}
	if errors.Is(err, authz.ErrNotYours) {
		httputil.WriteNotFoundError(w, "course not found")
		return false
	}
	s.logger.WithError(err).Error("ownership check failed")
	httputil.WriteInternalError(w, err)
	return false
}
