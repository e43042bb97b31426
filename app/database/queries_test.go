package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "tenant_id", "email", "password", "first_name", "last_name", "is_active", "created_at", "updated_at"}

func TestGetUserByEmailScopedToTenant(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()

	// Two schools can register the same email; the slug decides which
	// account logs in.
	mock.ExpectQuery(`JOIN tenants t ON t.id = u.tenant_id`).
		WithArgs("hillside", "admin@school.test").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("user-1", "tenant-1", "admin@school.test", "hash", "Asha", "Nak", true, now, now))

	user, err := GetUserByEmail(db, "hillside", "admin@school.test")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "tenant-1", user.TenantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTenantUsersRoleFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	listColumns := []string{"id", "tenant_id", "email", "first_name", "last_name", "is_active", "created_at", "updated_at"}

	mock.ExpectQuery(`JOIN roles r ON r.id = ur.role_id AND r.name = \$2`).
		WithArgs("tenant-1", "teacher").
		WillReturnRows(sqlmock.NewRows(listColumns).
			AddRow("user-2", "tenant-1", "teacher@school.test", "Musa", "Kib", true, now, now))

	users, err := ListTenantUsers(db, "tenant-1", "teacher")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "teacher@school.test", users[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTenantUsersWithoutRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	listColumns := []string{"id", "tenant_id", "email", "first_name", "last_name", "is_active", "created_at", "updated_at"}

	mock.ExpectQuery(`WHERE u.tenant_id = \$1`).
		WithArgs("tenant-1").
		WillReturnRows(sqlmock.NewRows(listColumns).
			AddRow("user-1", "tenant-1", "admin@school.test", "Asha", "Nak", true, now, now).
			AddRow("user-2", "tenant-1", "teacher@school.test", "Musa", "Kib", true, now, now))

	users, err := ListTenantUsers(db, "tenant-1", "")
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
