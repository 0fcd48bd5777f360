package profile

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profileRows = []string{"id", "email", "role", "status", "full_name", "username", "created_at", "updated_at"}

func TestGetByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE id").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(profileRows).
			AddRow("user-1", "a@example.com", "instructor", "active", nil, nil, now, now))

	store := NewStore(db)
	p, err := store.GetByID(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "user-1", p.ID)
	assert.Equal(t, RoleInstructor, p.Role)
	assert.Equal(t, StatusActive, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(profileRows))

	store := NewStore(db)
	_, err = store.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

// TestGetByID_UnknownRole verifies an out-of-enum role is a decode error,
// not a silent default
func TestGetByID_UnknownRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE id").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(profileRows).
			AddRow("user-1", "a@example.com", "superuser", "active", nil, nil, now, now))

	store := NewStore(db)
	_, err = store.GetByID(context.Background(), "user-1")

	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestUpsert_FirstSignInCreatesStudent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO profiles (.+) ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs("user-1", "a@example.com").
		WillReturnRows(sqlmock.NewRows(profileRows).
			AddRow("user-1", "a@example.com", "student", "active", nil, nil, now, now))

	store := NewStore(db)
	p, created, err := store.Upsert(context.Background(), "user-1", "a@example.com")

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, RoleStudent, p.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestUpsert_RepeatVisitKeepsElevatedRole verifies the conflict branch leaves
// role and status alone: an account elevated to admin between sign-ins stays
// admin.
func TestUpsert_RepeatVisitKeepsElevatedRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Now().Add(-24 * time.Hour)
	updated := time.Now()
	mock.ExpectQuery("INSERT INTO profiles (.+) ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs("user-1", "new@example.com").
		WillReturnRows(sqlmock.NewRows(profileRows).
			AddRow("user-1", "new@example.com", "admin", "active", nil, nil, created, updated))

	store := NewStore(db)
	p, wasCreated, err := store.Upsert(context.Background(), "user-1", "new@example.com")

	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, RoleAdmin, p.Role)
	assert.Equal(t, "new@example.com", p.Email)
}

func TestSetStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE profiles SET status").
		WithArgs("suspended", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewStore(db)
	require.NoError(t, store.SetStatus(context.Background(), "user-1", StatusSuspended))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	err = store.SetStatus(context.Background(), "user-1", Status("banned"))
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestSetStatus_MissingProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE profiles SET status").
		WithArgs("active", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewStore(db)
	err = store.SetStatus(context.Background(), "missing", StatusActive)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE profiles SET role").
		WithArgs("instructor", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewStore(db)
	require.NoError(t, store.SetRole(context.Background(), "user-1", RoleInstructor))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRole_RejectsUnknownRole(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	err = store.SetRole(context.Background(), "user-1", Role("root"))
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestListByRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE role").
		WithArgs("student").
		WillReturnRows(sqlmock.NewRows(profileRows).
			AddRow("user-1", "a@example.com", "student", "active", nil, nil, now, now).
			AddRow("user-2", "b@example.com", "student", "suspended", nil, nil, now, now))

	store := NewStore(db)
	profiles, err := store.ListByRole(context.Background(), RoleStudent)

	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, StatusSuspended, profiles[1].Status)
}
