package profile

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourse/campus/pkg/identity"
	"github.com/opencourse/campus/pkg/observability"
)

func testReconciler(t *testing.T) (*Reconciler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	return NewReconciler(NewStore(db), logger, nil), mock
}

func TestReconcile_FirstSignIn(t *testing.T) {
	rec, mock := testReconciler(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO profiles").
		WithArgs("user-1", "a@example.com").
		WillReturnRows(sqlmock.NewRows(profileRows).
			AddRow("user-1", "a@example.com", "student", "active", nil, nil, now, now))

	p, err := rec.Reconcile(context.Background(), &identity.Identity{ID: "user-1", Email: "a@example.com"})

	require.NoError(t, err)
	assert.Equal(t, RoleStudent, p.Role)
	assert.Equal(t, StatusActive, p.Status)
}

// TestReconcile_Idempotent runs the reconciliation twice for the same
// identity, with an admin role change in between; the second pass must not
// reset the role.
func TestReconcile_Idempotent(t *testing.T) {
	rec, mock := testReconciler(t)

	created := time.Now().Add(-time.Hour)

	mock.ExpectQuery("INSERT INTO profiles").
		WithArgs("user-1", "a@example.com").
		WillReturnRows(sqlmock.NewRows(profileRows).
			AddRow("user-1", "a@example.com", "student", "active", nil, nil, created, created))

	// Second callback after the operator set role=admin. The upsert's conflict
	// branch only touches email and updated_at, so the row comes back admin.
	mock.ExpectQuery("INSERT INTO profiles").
		WithArgs("user-1", "a@example.com").
		WillReturnRows(sqlmock.NewRows(profileRows).
			AddRow("user-1", "a@example.com", "admin", "active", nil, nil, created, time.Now()))

	first, err := rec.Reconcile(context.Background(), &identity.Identity{ID: "user-1", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, first.Role)

	second, err := rec.Reconcile(context.Background(), &identity.Identity{ID: "user-1", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, second.Role)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile_EmptyIdentity(t *testing.T) {
	rec, _ := testReconciler(t)

	_, err := rec.Reconcile(context.Background(), nil)
	assert.Error(t, err)

	_, err = rec.Reconcile(context.Background(), &identity.Identity{})
	assert.Error(t, err)
}

func TestReconcile_PersistenceError(t *testing.T) {
	rec, mock := testReconciler(t)

	mock.ExpectQuery("INSERT INTO profiles").
		WithArgs("user-1", "a@example.com").
		WillReturnError(assert.AnError)

	_, err := rec.Reconcile(context.Background(), &identity.Identity{ID: "user-1", Email: "a@example.com"})
	assert.Error(t, err)
}
