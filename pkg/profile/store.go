package profile

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/opencourse/campus/pkg/profile")

// Store persists profiles in PostgreSQL
type Store struct {
	db *sql.DB
}

// NewStore creates a profile store over an open database handle
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const profileColumns = `id, email, role, status, full_name, username, created_at, updated_at`

// scanProfile decodes one row into a typed Profile, validating the role and
// status enumerations at the boundary.
func scanProfile(row *sql.Row) (*Profile, error) {
	var p Profile
	var role, status string
	err := row.Scan(&p.ID, &p.Email, &role, &status, &p.FullName, &p.Username, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	if p.Role, err = ParseRole(role); err != nil {
		return nil, err
	}
	if p.Status, err = ParseStatus(status); err != nil {
		return nil, err
	}

	return &p, nil
}

// GetByID fetches a profile by identity ID. Returns ErrNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*Profile, error) {
	ctx, span := tracer.Start(ctx, "ProfileStore.GetByID",
		trace.WithAttributes(attribute.String("profile.id", id)),
	)
	defer span.End()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE id = $1
	`, id)

	p, err := scanProfile(row)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "profile lookup failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "profile fetched")
	return p, nil
}

// Upsert creates the profile on first sign-in or refreshes email and
// updated_at on repeat visits. This is the only place a role is ever assigned
// automatically, and only on insert: the conflict branch deliberately leaves
// role and status untouched so an admin-elevated or suspended account is
// never reset by a routine re-login. Single-statement upsert; no
// read-then-write race.
func (s *Store) Upsert(ctx context.Context, id, email string) (*Profile, bool, error) {
	ctx, span := tracer.Start(ctx, "ProfileStore.Upsert",
		trace.WithAttributes(attribute.String("profile.id", id)),
	)
	defer span.End()

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO profiles (id, email, role, status, created_at, updated_at)
		VALUES ($1, $2, 'student', 'active', NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			updated_at = NOW()
		RETURNING `+profileColumns+`
	`, id, email)

	p, err := scanProfile(row)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "profile upsert failed")
		return nil, false, fmt.Errorf("failed to upsert profile: %w", err)
	}

	// On insert both timestamps come from the same NOW(); any later visit
	// moves updated_at forward.
	created := p.CreatedAt.Equal(p.UpdatedAt)
	span.SetAttributes(attribute.Bool("profile.created", created))
	span.SetStatus(codes.Ok, "profile upserted")
	return p, created, nil
}

// SetStatus suspends or reinstates an account. Administrative action only.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	ctx, span := tracer.Start(ctx, "ProfileStore.SetStatus",
		trace.WithAttributes(
			attribute.String("profile.id", id),
			attribute.String("profile.status", string(status)),
		),
	)
	defer span.End()

	result, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET status = $1, updated_at = NOW() WHERE id = $2
	`, string(status), id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "status update failed")
		return fmt.Errorf("failed to update status: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	span.SetStatus(codes.Ok, "status updated")
	return nil
}

// SetRole assigns a role. This is the only path that ever changes a role;
// sign-in reconciliation never does.
func (s *Store) SetRole(ctx context.Context, id string, role Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	ctx, span := tracer.Start(ctx, "ProfileStore.SetRole",
		trace.WithAttributes(
			attribute.String("profile.id", id),
			attribute.String("profile.role", string(role)),
		),
	)
	defer span.End()

	result, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET role = $1, updated_at = NOW() WHERE id = $2
	`, string(role), id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "role update failed")
		return fmt.Errorf("failed to update role: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	span.SetStatus(codes.Ok, "role updated")
	return nil
}

// ListByRole lists profiles holding the given role, newest first
func (s *Store) ListByRole(ctx context.Context, role Role) ([]*Profile, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	ctx, span := tracer.Start(ctx, "ProfileStore.ListByRole",
		trace.WithAttributes(attribute.String("profile.role", string(role))),
	)
	defer span.End()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE role = $1
		ORDER BY created_at DESC
	`, string(role))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "profile list failed")
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		var p Profile
		var roleStr, statusStr string
		if err := rows.Scan(&p.ID, &p.Email, &roleStr, &statusStr, &p.FullName, &p.Username, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		if p.Role, err = ParseRole(roleStr); err != nil {
			return nil, err
		}
		if p.Status, err = ParseStatus(statusStr); err != nil {
			return nil, err
		}
		profiles = append(profiles, &p)
	}

	span.SetStatus(codes.Ok, "profiles listed")
	return profiles, rows.Err()
}
