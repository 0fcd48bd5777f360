package web

import (
	"net/http"

	"github.com/opencourse/campus/pkg/httputil"
	"github.com/opencourse/campus/pkg/profile"
)

// handleDashboard sends the caller to their role's landing page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	prof, ok := s.requireRole(w, r, profile.RoleStudent)
	if !ok {
		return
	}
	httputil.Redirect(w, r, prof.Home())
}

func (s *Server) handleStudentDashboard(w http.ResponseWriter, r *http.Request) {
	prof, ok := s.requireRole(w, r, profile.RoleStudent)
	if !ok {
		return
	}

	enrolled, err := s.courses.ListEnrollmentsForUser(r.Context(), prof.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list enrollments")
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"profile": profileView(prof),
		"courses": courseViews(enrolled),
	})
}

func (s *Server) handleInstructorDashboard(w http.ResponseWriter, r *http.Request) {
	prof, ok := s.requireRole(w, r, profile.RoleInstructor)
	if !ok {
		return
	}

	authored, err := s.courses.ListByAuthor(r.Context(), prof.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list authored courses")
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"profile": profileView(prof),
		"courses": courseViews(authored),
	})
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	prof, ok := s.requireRole(w, r, profile.RoleAdmin)
	if !ok {
		return
	}

	students, err := s.profiles.ListByRole(r.Context(), profile.RoleStudent)
	if err != nil {
		s.logger.WithError(err).Error("failed to list students")
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"profile":  profileView(prof),
		"students": profileViews(students),
	})
}
