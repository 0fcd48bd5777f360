package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allRoles = []Role{RoleStudent, RoleInstructor, RoleAdmin}

// TestRoleAtLeast_StudentIsFloor verifies every role satisfies the student tier
func TestRoleAtLeast_StudentIsFloor(t *testing.T) {
	for _, r := range allRoles {
		assert.True(t, r.AtLeast(RoleStudent), "role %s should be at least student", r)
	}
}

// TestRoleAtLeast_TotalOrder verifies the hierarchy is a strict total order
func TestRoleAtLeast_TotalOrder(t *testing.T) {
	for i, higher := range allRoles {
		for j, lower := range allRoles {
			got := higher.AtLeast(lower)
			want := i >= j
			assert.Equal(t, want, got, "%s.AtLeast(%s)", higher, lower)
		}
	}
}

func TestRoleAtLeast_UnknownRoleNeverPasses(t *testing.T) {
	bogus := Role("superuser")
	for _, r := range allRoles {
		assert.False(t, bogus.AtLeast(r))
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"student", RoleStudent, false},
		{"instructor", RoleInstructor, false},
		{"admin", RoleAdmin, false},
		{"", "", true},
		{"Admin", "", true},
		{"superuser", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownRole)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"active", StatusActive, false},
		{"suspended", StatusSuspended, false},
		{"banned", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStatus)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfileHome(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleAdmin, "/dashboard/admin"},
		{RoleInstructor, "/dashboard/instructor"},
		{RoleStudent, "/dashboard/student"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			p := &Profile{Role: tt.role}
			assert.Equal(t, tt.want, p.Home())
		})
	}
}

func TestProfileSuspended(t *testing.T) {
	assert.True(t, (&Profile{Status: StatusSuspended}).Suspended())
	assert.False(t, (&Profile{Status: StatusActive}).Suspended())
}
