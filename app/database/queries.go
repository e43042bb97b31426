package database

import (
	"database/sql"
	"errors"

	"zawadi-schools/app/models"

	"golang.org/x/crypto/bcrypt"
)

// ErrVersionConflict signals a lost optimistic-concurrency race: another
// request mutated the row between read and write.
var ErrVersionConflict = errors.New("record was modified concurrently, retry")

// GetUserByEmail looks up an active user for login. Email is unique only
// within a tenant, so the lookup is scoped by the tenant's slug.
func GetUserByEmail(db *sql.DB, tenantSlug, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT u.id, u.tenant_id, u.email, u.password, u.first_name, u.last_name, u.is_active, u.created_at, u.updated_at
			  FROM users u
			  JOIN tenants t ON t.id = u.tenant_id
			  WHERE t.slug = $1 AND t.is_active = true AND t.deleted_at IS NULL
				AND u.email = $2 AND u.is_active = true AND u.deleted_at IS NULL`

	err := db.QueryRow(query, tenantSlug, email).Scan(
		&user.ID, &user.TenantID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID fetches an active user within a tenant.
func GetUserByID(db *sql.DB, tenantID, userID string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, tenant_id, email, password, first_name, last_name, is_active, created_at, updated_at
			  FROM users WHERE tenant_id = $1 AND id = $2 AND is_active = true AND deleted_at IS NULL`

	err := db.QueryRow(query, tenantID, userID).Scan(
		&user.ID, &user.TenantID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserRoles returns the roles attached to a user.
func GetUserRoles(db *sql.DB, userID string) ([]*models.Role, error) {
	query := `
		SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON r.id = ur.role_id
		WHERE ur.user_id = $1
	`
	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		role := &models.Role{}
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// CreateUser inserts a user with a hashed password and attaches the given
// roles in one transaction.
func CreateUser(db *sql.DB, user *models.User, plainPassword string, bcryptCost int, roleNames ...string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcryptCost)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO users (tenant_id, email, password, first_name, last_name)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query, user.TenantID, user.Email, string(hash), user.FirstName, user.LastName).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return err
	}

	for _, name := range roleNames {
		_, err = tx.Exec(`INSERT INTO user_roles (user_id, role_id)
						  SELECT $1, id FROM roles WHERE name = $2`, user.ID, name)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ChangeUserPassword replaces a user's password hash after verifying the old
// one.
func ChangeUserPassword(db *sql.DB, tenantID, userID, oldPassword, newPassword string, bcryptCost int) error {
	user, err := GetUserByID(db, tenantID, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return errors.New("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	_, err = db.Exec(`UPDATE users SET password = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`,
		string(hash), tenantID, userID)
	return err
}

// CreateTenant registers a new school instance.
func CreateTenant(db *sql.DB, tenant *models.Tenant) error {
	query := `INSERT INTO tenants (name, slug) VALUES ($1, $2)
			  RETURNING id, is_active, created_at, updated_at`
	return db.QueryRow(query, tenant.Name, tenant.Slug).
		Scan(&tenant.ID, &tenant.IsActive, &tenant.CreatedAt, &tenant.UpdatedAt)
}

// GetTenantBySlug fetches an active tenant by its slug.
func GetTenantBySlug(db *sql.DB, slug string) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	query := `SELECT id, name, slug, is_active, created_at, updated_at
			  FROM tenants WHERE slug = $1 AND is_active = true AND deleted_at IS NULL`
	err := db.QueryRow(query, slug).Scan(
		&tenant.ID, &tenant.Name, &tenant.Slug, &tenant.IsActive, &tenant.CreatedAt, &tenant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// ListTenantUsers returns active users of a tenant, optionally filtered by role.
func ListTenantUsers(db *sql.DB, tenantID, roleName string) ([]*models.User, error) {
	query := `SELECT DISTINCT u.id, u.tenant_id, u.email, u.first_name, u.last_name, u.is_active, u.created_at, u.updated_at
			  FROM users u`
	args := []interface{}{tenantID}
	if roleName != "" {
		query += ` JOIN user_roles ur ON ur.user_id = u.id
				   JOIN roles r ON r.id = ur.role_id AND r.name = $2`
		args = append(args, roleName)
	}
	query += ` WHERE u.tenant_id = $1 AND u.is_active = true AND u.deleted_at IS NULL
			   ORDER BY u.first_name, u.last_name`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.TenantID, &u.Email, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
