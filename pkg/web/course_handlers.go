package web

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/opencourse/campus/pkg/course"
	"github.com/opencourse/campus/pkg/httputil"
	"github.com/opencourse/campus/pkg/middleware"
	"github.com/opencourse/campus/pkg/profile"
)

// handleListCourses serves the public catalog. Anonymous callers see
// published courses only.
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.courses.ListPublished(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to list courses")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, courseViews(courses))
}

// handleGetCourse serves one course. Drafts are visible to their author
// and admins only; everyone else gets the same not-found as a course
// that does not exist.
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	c, err := s.courses.GetCourse(r.Context(), courseID)
	if errors.Is(err, course.ErrNotFound) {
		httputil.WriteNotFoundError(w, "course not found")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to load course")
		httputil.WriteInternalError(w, err)
		return
	}

	if c.Status != course.StatusPublished && !canManage(s.loadProfile(r), c) {
		httputil.WriteNotFoundError(w, "course not found")
		return
	}

	httputil.WriteSuccess(w, courseView(c))
}

// canManage reports whether the caller is the course author or an admin.
// Used for visibility only; mutations run the full ownership check
// instead.
func canManage(prof *profile.Profile, c *course.Course) bool {
	if prof == nil {
		return false
	}
	return prof.Role == profile.RoleAdmin || prof.ID == c.AuthorID
}

// loadProfile resolves the caller's profile for visibility decisions.
// Unlike the guard it records no denial: failing a visibility check is
// not an access denial.
func (s *Server) loadProfile(r *http.Request) *profile.Profile {
	ident := middleware.IdentityFromContext(r.Context())
	if ident == nil {
		return nil
	}
	prof, err := s.profiles.GetByID(r.Context(), ident.ID)
	if err != nil || prof.Suspended() {
		return nil
	}
	return prof
}

// handleListResources serves a course's content with fresh signed URLs.
// Students need an active enrollment when the course is locked.
func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	courseID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	prof, ok := s.requireRole(w, r, profile.RoleStudent)
	if !ok {
		return
	}

	c, err := s.courses.GetCourse(r.Context(), courseID)
	if errors.Is(err, course.ErrNotFound) {
		httputil.WriteNotFoundError(w, "course not found")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to load course")
		httputil.WriteInternalError(w, err)
		return
	}

	if !canManage(prof, c) {
		if c.Status != course.StatusPublished {
			httputil.WriteNotFoundError(w, "course not found")
			return
		}
		if c.Locked {
			enrolled, err := s.courses.IsEnrolled(r.Context(), prof.ID, courseID)
			if err != nil {
				s.logger.WithError(err).Error("failed to check enrollment")
				httputil.WriteInternalError(w, err)
				return
			}
			if !enrolled {
				httputil.WriteForbidden(w, "enrollment required")
				return
			}
		}
	}

	resources, err := s.courses.ListResources(r.Context(), courseID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list resources")
		httputil.WriteInternalError(w, err)
		return
	}

	gated, err := s.media.Resolve(r.Context(), resources)
	if err != nil {
		s.logger.WithError(err).Error("failed to resolve resources")
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, resourceViews(gated))
}

type courseRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Price       *float64 `json:"price"`
}

// handleCreateCourse creates a draft owned by the calling instructor.
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	prof, ok := s.requireRole(w, r, profile.RoleInstructor)
	if !ok {
		return
	}

	var req courseRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Title == "" {
		httputil.WriteValidationError(w, "title is required")
		return
	}

	c, err := s.courses.CreateCourse(r.Context(), prof.ID, req.Title, nullString(req.Description))
	if err != nil {
		s.logger.WithError(err).Error("failed to create course")
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteCreated(w, courseView(c))
}

// handleUpdateCourse edits a course. Validation happens before any
// write, and ownership is re-checked inside the action.
func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	prof, ok := s.requireRole(w, r, profile.RoleInstructor)
	if !ok {
		return
	}

	var req courseRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Title == "" {
		httputil.WriteValidationError(w, "title is required")
		return
	}
	status := course.CourseStatus(req.Status)
	if !status.Valid() {
		httputil.WriteValidationError(w, "status must be draft or published")
		return
	}
	if req.Price != nil && *req.Price < 0 {
		httputil.WriteValidationError(w, "price must be non-negative")
		return
	}

	if !s.requireOwner(w, r, prof, courseID) {
		return
	}

	err := s.courses.UpdateCourse(r.Context(), courseID, req.Title, nullString(req.Description), status, nullFloat(req.Price))
	if errors.Is(err, course.ErrNotFound) {
		httputil.WriteNotFoundError(w, "course not found")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to update course")
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]string{"id": courseID})
}

// handlePublishCourse flips a course to published.
func (s *Server) handlePublishCourse(w http.ResponseWriter, r *http.Request) {
	s.setStatus(w, r, course.StatusPublished)
}

// handleUnpublishCourse returns a course to draft.
func (s *Server) handleUnpublishCourse(w http.ResponseWriter, r *http.Request) {
	s.setStatus(w, r, course.StatusDraft)
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request, status course.CourseStatus) {
	courseID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	prof, ok := s.requireRole(w, r, profile.RoleInstructor)
	if !ok {
		return
	}
	if !s.requireOwner(w, r, prof, courseID) {
		return
	}

	err := s.courses.SetCourseStatus(r.Context(), courseID, status)
	if errors.Is(err, course.ErrNotFound) {
		httputil.WriteNotFoundError(w, "course not found")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to set course status")
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]string{"id": courseID, "status": string(status)})
}

// handleDeleteCourse removes a course. Same collapsed not-found as every
// other mutation.
func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	prof, ok := s.requireRole(w, r, profile.RoleInstructor)
	if !ok {
		return
	}
	if !s.requireOwner(w, r, prof, courseID) {
		return
	}

	if err := s.courses.DeleteCourse(r.Context(), courseID); err != nil {
		s.logger.WithError(err).Error("failed to delete course")
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

// handleEnroll enrolls the caller into a published course.
func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	courseID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	prof, ok := s.requireRole(w, r, profile.RoleStudent)
	if !ok {
		return
	}

	c, err := s.courses.GetCourse(r.Context(), courseID)
	if errors.Is(err, course.ErrNotFound) {
		httputil.WriteNotFoundError(w, "course not found")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to load course")
		httputil.WriteInternalError(w, err)
		return
	}
	if c.Status != course.StatusPublished {
		httputil.WriteNotFoundError(w, "course not found")
		return
	}

	if err := s.courses.Enroll(r.Context(), prof.ID, courseID); err != nil {
		s.logger.WithError(err).Error("failed to enroll")
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteCreated(w, map[string]string{"course_id": courseID})
}

// handleCourseRoster lists a course's enrolled students for its author.
func (s *Server) handleCourseRoster(w http.ResponseWriter, r *http.Request) {
	courseID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	prof, ok := s.requireRole(w, r, profile.RoleInstructor)
	if !ok {
		return
	}
	if !s.requireOwner(w, r, prof, courseID) {
		return
	}

	students, err := s.courses.ListEnrolledStudents(r.Context(), courseID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list roster")
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, rosterViews(students))
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
