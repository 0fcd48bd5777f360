package course

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Errors returned by the course layer
var (
	// ErrNotFound indicates the course or resource does not exist
	ErrNotFound = errors.New("course not found")
	// ErrUnknownStatus indicates a stored course status outside the enumeration
	ErrUnknownStatus = errors.New("unknown course status")
	// ErrUnknownResourceType indicates a stored resource type outside the enumeration
	ErrUnknownResourceType = errors.New("unknown resource type")
)

// CourseStatus is the publication state enumeration
type CourseStatus string

const (
	StatusDraft     CourseStatus = "draft"
	StatusPublished CourseStatus = "published"
)

// Valid reports whether s is a member of the closed enumeration
func (s CourseStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// ParseCourseStatus decodes a stored status string
func ParseCourseStatus(s string) (CourseStatus, error) {
	status := CourseStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// Course is a unit of sellable content. AuthorID is the creator's identity ID
// and is immutable after creation; there is no transfer operation.
type Course struct {
	ID          string
	Title       string
	Description sql.NullString
	AuthorID    string
	Status      CourseStatus
	Locked      bool
	Price       sql.NullFloat64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ResourceType distinguishes externally hosted links from private files
type ResourceType string

const (
	ResourceLink ResourceType = "link"
	ResourceFile ResourceType = "file"
)

// Valid reports whether t is a member of the closed enumeration
func (t ResourceType) Valid() bool {
	return t == ResourceLink || t == ResourceFile
}

// ParseResourceType decodes a stored resource type string
func ParseResourceType(s string) (ResourceType, error) {
	rt := ResourceType(s)
	if !rt.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownResourceType, s)
	}
	return rt, nil
}

// Resource is one item of course content. For file resources FilePath is a
// stable storage key, never a usable URL; usable URLs are minted fresh at
// read time and never persisted.
type Resource struct {
	ID       string
	CourseID string
	Type     ResourceType
	Title    string
	URL      sql.NullString
	FilePath sql.NullString
}

// EnrolledStudent is one row of a per-course student roster
type EnrolledStudent struct {
	UserID     string
	Email      string
	FullName   sql.NullString
	EnrolledAt time.Time
	Status     string
}
