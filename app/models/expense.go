package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operational expense (kitchen, maintenance, salaries) for a
// tenant, grouped by category for monthly reporting.
type Expense struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenant_id"`
	Category  string          `json:"category" validate:"required"`
	Title     string          `json:"title" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
}

// ExpenseCategorySummary is one category's total within a month.
type ExpenseCategorySummary struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}
