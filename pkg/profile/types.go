package profile

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Errors returned by the profile layer
var (
	// ErrNotFound indicates no profile exists for the identity
	ErrNotFound = errors.New("profile not found")
	// ErrUnknownRole indicates the stored role is outside the closed enumeration
	ErrUnknownRole = errors.New("unknown role")
	// ErrUnknownStatus indicates the stored status is outside the closed enumeration
	ErrUnknownStatus = errors.New("unknown status")
)

// Role is the closed three-level role enumeration. Stored as text; decoded at
// the store boundary so an unexpected value surfaces as ErrUnknownRole instead
// of silently defaulting.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// rank orders roles for the is-at-least comparison
func (r Role) rank() int {
	switch r {
	case RoleStudent:
		return 0
	case RoleInstructor:
		return 1
	case RoleAdmin:
		return 2
	default:
		return -1
	}
}

// AtLeast reports whether r grants at least the privilege of required.
// Total order: student < instructor < admin.
func (r Role) AtLeast(required Role) bool {
	return r.rank() >= required.rank() && r.rank() >= 0
}

// Valid reports whether r is a member of the closed enumeration
func (r Role) Valid() bool {
	return r.rank() >= 0
}

// ParseRole decodes a stored role string into the closed enumeration
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return role, nil
}

// Status is the account status enumeration
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Valid reports whether s is a member of the closed enumeration
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusSuspended
}

// ParseStatus decodes a stored status string
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// Profile is the durable local record describing a person, keyed by the
// identity provider's user ID. Role is only ever set by explicit
// administrative action after creation; routine sign-ins never touch it.
type Profile struct {
	ID        string
	Email     string
	Role      Role
	Status    Status
	FullName  sql.NullString
	Username  sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Suspended reports whether the account is blocked from the protected area
func (p *Profile) Suspended() bool {
	return p.Status == StatusSuspended
}

// Home returns the dashboard landing path for the profile's role. Denied
// callers are redirected here, never to the resource they asked for.
func (p *Profile) Home() string {
	switch p.Role {
	case RoleAdmin:
		return "/dashboard/admin"
	case RoleInstructor:
		return "/dashboard/instructor"
	default:
		return "/dashboard/student"
	}
}
