package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Student represents an enrolled student within a tenant.
type Student struct {
	ID                string          `json:"id"`
	TenantID          string          `json:"tenant_id"`
	StudentCode       string          `json:"student_code" validate:"required"`
	FirstName         string          `json:"first_name" validate:"required"`
	LastName          string          `json:"last_name" validate:"required"`
	Gender            Gender          `json:"gender"`
	ClassName         string          `json:"class_name,omitempty"`
	GuardianName      string          `json:"guardian_name,omitempty"`
	GuardianPhone     string          `json:"guardian_phone,omitempty"`
	MonthlyTuitionFee decimal.Decimal `json:"monthly_tuition_fee"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         *time.Time      `json:"deleted_at,omitempty"`
}

// FullName returns the student's display name.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentFinanceSummary aggregates a student's payment position.
type StudentFinanceSummary struct {
	StudentID        string          `json:"student_id"`
	TotalBilled      decimal.Decimal `json:"total_billed"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	OpenPayments     int             `json:"open_payments"`
}
