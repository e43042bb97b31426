package models

import "time"

// User represents a staff, teacher or parent account scoped to a tenant.
type User struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"tenant_id"`
	Email     string     `json:"email" validate:"required,email"`
	Password  string     `json:"-"`
	FirstName string     `json:"first_name" validate:"required"`
	LastName  string     `json:"last_name" validate:"required"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	Roles []*Role `json:"roles,omitempty"`
}

// FullName returns the display name used in UI feedback.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Role is a named permission group within a tenant.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
