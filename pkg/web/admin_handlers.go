package web

import (
	"errors"
	"net/http"

	"github.com/opencourse/campus/pkg/httputil"
	"github.com/opencourse/campus/pkg/profile"
)

// handleListStudents serves the admin student roster.
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireRole(w, r, profile.RoleAdmin); !ok {
		return
	}

	students, err := s.profiles.ListByRole(r.Context(), profile.RoleStudent)
	if err != nil {
		s.logger.WithError(err).Error("failed to list students")
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, profileViews(students))
}

// handleSuspendStudent marks an account suspended. The account keeps its
// role; suspension is a status, not a demotion.
func (s *Server) handleSuspendStudent(w http.ResponseWriter, r *http.Request) {
	s.setAccountStatus(w, r, profile.StatusSuspended)
}

// handleReinstateStudent returns a suspended account to active.
func (s *Server) handleReinstateStudent(w http.ResponseWriter, r *http.Request) {
	s.setAccountStatus(w, r, profile.StatusActive)
}

func (s *Server) setAccountStatus(w http.ResponseWriter, r *http.Request, status profile.Status) {
	admin, ok := s.requireRole(w, r, profile.RoleAdmin)
	if !ok {
		return
	}

	userID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}
	if userID == admin.ID {
		httputil.WriteValidationError(w, "cannot change your own status")
		return
	}

	err := s.profiles.SetStatus(r.Context(), userID, status)
	if errors.Is(err, profile.ErrNotFound) {
		httputil.WriteNotFoundError(w, "profile not found")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to set account status")
		httputil.WriteInternalError(w, err)
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"admin_id":  admin.ID,
		"target_id": userID,
		"status":    string(status),
	}).Info("account status changed")
	httputil.WriteSuccess(w, map[string]string{"id": userID, "status": string(status)})
}

type roleRequest struct {
	Role string `json:"role"`
}

// handleSetRole assigns a role explicitly. This is the only path that
// changes a role; sign-in reconciliation never touches it.
func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request) {
	admin, ok := s.requireRole(w, r, profile.RoleAdmin)
	if !ok {
		return
	}

	userID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req roleRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	role, err := profile.ParseRole(req.Role)
	if err != nil {
		httputil.WriteValidationError(w, "role must be student, instructor, or admin")
		return
	}
	if userID == admin.ID {
		httputil.WriteValidationError(w, "cannot change your own role")
		return
	}

	err = s.profiles.SetRole(r.Context(), userID, role)
	if errors.Is(err, profile.ErrNotFound) {
		httputil.WriteNotFoundError(w, "profile not found")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to set role")
		httputil.WriteInternalError(w, err)
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"admin_id":  admin.ID,
		"target_id": userID,
		"role":      string(role),
	}).Info("role assigned")
	httputil.WriteSuccess(w, map[string]string{"id": userID, "role": string(role)})
}
