package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/opencourse/campus/pkg/authz"
	"github.com/opencourse/campus/pkg/course"
	"github.com/opencourse/campus/pkg/identity"
	"github.com/opencourse/campus/pkg/media"
	"github.com/opencourse/campus/pkg/observability"
	"github.com/opencourse/campus/pkg/profile"
)

// Server owns the router and the collaborators handlers need.
type Server struct {
	router     *mux.Router
	bridge     *identity.Bridge
	guard      *authz.Guard
	profiles   *profile.Store
	reconciler *profile.Reconciler
	courses    *course.Store
	media      *media.Resolver
	logger     *observability.Logger
	metrics    *observability.Metrics
}

// NewServer assembles the handler surface.
func NewServer(
	bridge *identity.Bridge,
	guard *authz.Guard,
	profiles *profile.Store,
	reconciler *profile.Reconciler,
	courses *course.Store,
	mediaResolver *media.Resolver,
	logger *observability.Logger,
	metrics *observability.Metrics,
) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		bridge:     bridge,
		guard:      guard,
		profiles:   profiles,
		reconciler: reconciler,
		courses:    courses,
		media:      mediaResolver,
		logger:     logger,
		metrics:    metrics,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Auth flow: reachable anonymously, exempt at the boundary
	s.router.HandleFunc("/auth/sign-in", s.handleSignInRedirect).Methods("GET")
	s.router.HandleFunc("/auth/sign-in", s.handlePasswordSignIn).Methods("POST")
	s.router.HandleFunc("/auth/callback", s.handleCallback).Methods("GET")
	s.router.HandleFunc("/auth/sign-out", s.handleSignOut).Methods("POST")
	s.router.HandleFunc("/login", s.handleLogin).Methods("GET")

	// Dashboard landing
	s.router.HandleFunc("/dashboard", s.handleDashboard).Methods("GET")
	s.router.HandleFunc("/dashboard/student", s.handleStudentDashboard).Methods("GET")
	s.router.HandleFunc("/dashboard/instructor", s.handleInstructorDashboard).Methods("GET")
	s.router.HandleFunc("/dashboard/admin", s.handleAdminDashboard).Methods("GET")

	// Course catalog and content
	s.router.HandleFunc("/courses", s.handleListCourses).Methods("GET")
	s.router.HandleFunc("/courses", s.handleCreateCourse).Methods("POST")
	s.router.HandleFunc("/courses/{id}", s.handleGetCourse).Methods("GET")
	s.router.HandleFunc("/courses/{id}", s.handleUpdateCourse).Methods("PUT")
	s.router.HandleFunc("/courses/{id}", s.handleDeleteCourse).Methods("DELETE")
	s.router.HandleFunc("/courses/{id}/resources", s.handleListResources).Methods("GET")
	s.router.HandleFunc("/courses/{id}/publish", s.handlePublishCourse).Methods("POST")
	s.router.HandleFunc("/courses/{id}/unpublish", s.handleUnpublishCourse).Methods("POST")
	s.router.HandleFunc("/courses/{id}/enroll", s.handleEnroll).Methods("POST")
	s.router.HandleFunc("/courses/{id}/students", s.handleCourseRoster).Methods("GET")

	// Admin actions
	s.router.HandleFunc("/dashboard/admin/students", s.handleListStudents).Methods("GET")
	s.router.HandleFunc("/dashboard/admin/students/{id}/suspend", s.handleSuspendStudent).Methods("POST")
	s.router.HandleFunc("/dashboard/admin/students/{id}/reinstate", s.handleReinstateStudent).Methods("POST")
	s.router.HandleFunc("/dashboard/admin/users/{id}/role", s.handleSetRole).Methods("POST")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
