package course

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/opencourse/campus/pkg/course")

// Store persists courses, resources, and enrollments in PostgreSQL
type Store struct {
	db *sql.DB
}

// NewStore creates a course store over an open database handle
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const courseColumns = `id, title, description, author_id, status, locked, price, created_at, updated_at`

func scanCourse(scanner interface {
	Scan(dest ...interface{}) error
}) (*Course, error) {
	var c Course
	var status string
	err := scanner.Scan(&c.ID, &c.Title, &c.Description, &c.AuthorID, &status, &c.Locked, &c.Price, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	if c.Status, err = ParseCourseStatus(status); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCourse fetches a course by ID. Returns ErrNotFound when absent.
func (s *Store) GetCourse(ctx context.Context, id string) (*Course, error) {
	ctx, span := tracer.Start(ctx, "CourseStore.GetCourse",
		trace.WithAttributes(attribute.String("course.id", id)),
	)
	defer span.End()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+courseColumns+`
		FROM courses WHERE id = $1
	`, id)

	c, err := scanCourse(row)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "course lookup failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "course fetched")
	return c, nil
}

// GetAuthorID is the point lookup behind the ownership check
func (s *Store) GetAuthorID(ctx context.Context, id string) (string, error) {
	var authorID string
	err := s.db.QueryRowContext(ctx, `
		SELECT author_id FROM courses WHERE id = $1
	`, id).Scan(&authorID)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load course author: %w", err)
	}
	return authorID, nil
}

// CreateCourse inserts a new draft course owned by authorID
func (s *Store) CreateCourse(ctx context.Context, authorID, title string, description sql.NullString) (*Course, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO courses (id, title, description, author_id, status, locked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'draft', true, NOW(), NOW())
		RETURNING `+courseColumns+`
	`, uuid.NewString(), title, description, authorID)

	c, err := scanCourse(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return c, nil
}

// UpdateCourse updates the editable fields. Last write wins; there is no
// version column.
func (s *Store) UpdateCourse(ctx context.Context, id, title string, description sql.NullString, status CourseStatus, price sql.NullFloat64) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE courses
		SET title = $1, description = $2, status = $3, price = $4, updated_at = NOW()
		WHERE id = $5
	`, title, description, string(status), price, id)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCourseStatus toggles publication
func (s *Store) SetCourseStatus(ctx context.Context, id string, status CourseStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE courses SET status = $1, updated_at = NOW() WHERE id = $2
	`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update course status: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCourse removes a course and cascades to its resources and enrollments
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPublished lists published courses for the public catalog, newest first
func (s *Store) ListPublished(ctx context.Context) ([]*Course, error) {
	return s.listCourses(ctx, `
		SELECT `+courseColumns+`
		FROM courses WHERE status = 'published'
		ORDER BY created_at DESC
	`)
}

// ListByAuthor lists an instructor's own courses, newest first
func (s *Store) ListByAuthor(ctx context.Context, authorID string) ([]*Course, error) {
	return s.listCourses(ctx, `
		SELECT `+courseColumns+`
		FROM courses WHERE author_id = $1
		ORDER BY created_at DESC
	`, authorID)
}

func (s *Store) listCourses(ctx context.Context, query string, args ...interface{}) ([]*Course, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// ListResources lists a course's content items in insertion order
func (s *Store) ListResources(ctx context.Context, courseID string) ([]*Resource, error) {
	ctx, span := tracer.Start(ctx, "CourseStore.ListResources",
		trace.WithAttributes(attribute.String("course.id", courseID)),
	)
	defer span.End()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, course_id, type, title, url, file_path
		FROM course_resources WHERE course_id = $1
		ORDER BY created_at
	`, courseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resource list failed")
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	var resources []*Resource
	for rows.Next() {
		var res Resource
		var resType string
		if err := rows.Scan(&res.ID, &res.CourseID, &resType, &res.Title, &res.URL, &res.FilePath); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		if res.Type, err = ParseResourceType(resType); err != nil {
			return nil, err
		}
		resources = append(resources, &res)
	}

	span.SetAttributes(attribute.Int("resource.count", len(resources)))
	span.SetStatus(codes.Ok, "resources listed")
	return resources, rows.Err()
}

// IsEnrolled reports whether the user holds an active enrollment
func (s *Store) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM enrollments
		WHERE user_id = $1 AND course_id = $2 AND status = 'active'
	`, userID, courseID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return true, nil
}

// Enroll creates an active enrollment for the user
func (s *Store) Enroll(ctx context.Context, userID, courseID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO enrollments (user_id, course_id, status, progress, created_at)
		VALUES ($1, $2, 'active', 0, NOW())
		ON CONFLICT (user_id, course_id) DO NOTHING
	`, userID, courseID)
	if err != nil {
		return fmt.Errorf("failed to enroll: %w", err)
	}
	return nil
}

// ListEnrolledStudents lists a course's active students, newest first
func (s *Store) ListEnrolledStudents(ctx context.Context, courseID string) ([]*EnrolledStudent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.email, p.full_name, e.created_at, e.status
		FROM enrollments e
		JOIN profiles p ON p.id = e.user_id
		WHERE e.course_id = $1 AND e.status = 'active'
		ORDER BY e.created_at DESC
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled students: %w", err)
	}
	defer rows.Close()

	var students []*EnrolledStudent
	for rows.Next() {
		var st EnrolledStudent
		if err := rows.Scan(&st.UserID, &st.Email, &st.FullName, &st.EnrolledAt, &st.Status); err != nil {
			return nil, fmt.Errorf("failed to scan enrolled student: %w", err)
		}
		students = append(students, &st)
	}
	return students, rows.Err()
}

// ListEnrollmentsForUser lists the user's active enrollments with their
// courses, newest first
func (s *Store) ListEnrollmentsForUser(ctx context.Context, userID string) ([]*Course, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title, c.description, c.author_id, c.status, c.locked, c.price, c.created_at, c.updated_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1 AND e.status = 'active'
		ORDER BY e.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	var courses []*Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
