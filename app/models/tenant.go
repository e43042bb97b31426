package models

import "time"

// Tenant is one isolated school instance. Every row in every other table is
// scoped by a tenant identifier; queries never cross tenants.
type Tenant struct {
	ID        string     `json:"id"`
	Name      string     `json:"name" validate:"required"`
	Slug      string     `json:"slug" validate:"required,lowercase"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
