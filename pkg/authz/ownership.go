package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/opencourse/campus/pkg/course"
	"github.com/opencourse/campus/pkg/profile"
)

// ErrNotYours is returned when a course does not exist or is not owned
// by the caller. The two cases deliberately share one error so callers
// cannot probe which course IDs exist.
var ErrNotYours = errors.New("course not found")

// AuthorLookup resolves a course to its owning instructor.
type AuthorLookup interface {
	GetAuthorID(ctx context.Context, courseID string) (string, error)
}

// RequireOwner allows the operation when the caller authored the course
// or is an admin. Admins bypass ownership but never suspension; callers
// must have passed Guard.Require first. Mutating handlers call this
// inside the mutation itself, not only at routing time, so the check
// cannot be skipped by reaching the action directly.
func RequireOwner(ctx context.Context, courses AuthorLookup, prof *profile.Profile, courseID string) error {
	authorID, err := courses.GetAuthorID(ctx, courseID)
	if errors.Is(err, course.ErrNotFound) {
		return ErrNotYours
	}
	if err != nil {
		return fmt.Errorf("failed to resolve course author: %w", err)
	}
	if prof.Role == profile.RoleAdmin {
		return nil
	}
	if authorID != prof.ID {
		return ErrNotYours
	}
	return nil
}
