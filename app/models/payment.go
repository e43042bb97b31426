package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents one billing obligation for a student (tuition, books,
// uniform or other). Amounts are cumulative: PaidAmount grows as installments
// are recorded and RemainingAmount is kept as a stored, redundant field so
// that PaidAmount + RemainingAmount always equals Amount.
type Payment struct {
	ID              string          `json:"id"`
	TenantID        string          `json:"tenant_id"`
	StudentID       string          `json:"student_id"`
	Type            PaymentType     `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          PaymentStatus   `json:"status"`
	DueDate         time.Time       `json:"due_date"`
	PaymentMonth    int             `json:"payment_month"`
	PaymentYear     int             `json:"payment_year"`
	PaidDate        *time.Time      `json:"paid_date,omitempty"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	ReceivedByID    *string         `json:"received_by_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`

	StudentName string `json:"student_name,omitempty"`
}

// LedgerEntry is one append-only installment record for a payment. The ledger
// is the authoritative installment history; the payment's Notes field only
// mirrors it for display.
type LedgerEntry struct {
	ID         string          `json:"id"`
	TenantID   string          `json:"tenant_id"`
	PaymentID  string          `json:"payment_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method,omitempty"`
	Note       string          `json:"note,omitempty"`
	RecordedBy *string         `json:"recorded_by,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`
}

var (
	// ErrPaymentCompleted is returned when an installment targets a payment
	// that is already settled in full.
	ErrPaymentCompleted = errors.New("payment is already completed")

	// ErrPaymentClosed is returned for terminal administrative states.
	ErrPaymentClosed = errors.New("payment is failed or refunded and cannot accept installments")

	// ErrNonPositiveAmount is returned for zero or negative installments.
	ErrNonPositiveAmount = errors.New("installment amount must be greater than zero")

	// ErrDeleteCompleted is returned when deleting a completed payment;
	// completed payments can only be reversed via a refunded status change.
	ErrDeleteCompleted = errors.New("completed payments cannot be deleted")
)

// OverpaymentError rejects an installment that would push the cumulative paid
// amount above the total owed. MaxAcceptable is the largest additional amount
// the payment can still take.
type OverpaymentError struct {
	MaxAcceptable decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("installment exceeds amount owed: maximum acceptable amount is %s", e.MaxAcceptable.StringFixed(2))
}

// StatusForAmounts derives a payment status from its cumulative amounts.
// Failed and refunded are administrative overrides set outside this rule.
func StatusForAmounts(total, paid decimal.Decimal) PaymentStatus {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return PaymentPending
	case paid.LessThan(total):
		return PaymentPartiallyPaid
	default:
		return PaymentCompleted
	}
}

// ApplyInstallment records an installment against the payment in memory,
// updating PaidAmount, RemainingAmount, Status, PaidDate and the display
// notes. It rejects without mutating when the payment cannot accept the
// amount. Persistence is the caller's concern.
func (p *Payment) ApplyInstallment(amount decimal.Decimal, method, note string, receivedBy string, now time.Time) (*LedgerEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrNonPositiveAmount
	}
	switch p.Status {
	case PaymentCompleted:
		return nil, ErrPaymentCompleted
	case PaymentFailed, PaymentRefunded:
		return nil, ErrPaymentClosed
	}

	newPaid := p.PaidAmount.Add(amount)
	if newPaid.GreaterThan(p.Amount) {
		return nil, &OverpaymentError{MaxAcceptable: p.Amount.Sub(p.PaidAmount)}
	}

	p.PaidAmount = newPaid
	p.RemainingAmount = p.Amount.Sub(newPaid)
	if p.RemainingAmount.IsNegative() {
		p.RemainingAmount = decimal.Zero
	}
	p.Status = StatusForAmounts(p.Amount, p.PaidAmount)
	if method != "" {
		p.PaymentMethod = method
	}

	// Stamp on the first installment and again when the payment completes.
	if p.PaidDate == nil || p.Status == PaymentCompleted {
		t := now
		p.PaidDate = &t
	}

	line := fmt.Sprintf("[%s] received %s", now.Format("2006-01-02 15:04"), amount.StringFixed(2))
	if method != "" {
		line += " via " + method
	}
	if note != "" {
		line += " - " + note
	}
	if p.Notes != "" {
		p.Notes += "\n"
	}
	p.Notes += line

	entry := &LedgerEntry{
		TenantID:   p.TenantID,
		PaymentID:  p.ID,
		Amount:     amount,
		Method:     method,
		Note:       note,
		RecordedAt: now,
	}
	if receivedBy != "" {
		entry.RecordedBy = &receivedBy
		p.ReceivedByID = &receivedBy
	}
	return entry, nil
}

// ForceStatus overwrites the payment's numeric state so it is consistent with
// the target status: completed means fully paid, anything else fully unpaid.
// Used by bulk status changes; returns false when nothing changed.
func (p *Payment) ForceStatus(status PaymentStatus, now time.Time) bool {
	if p.Status == status {
		return false
	}
	p.Status = status
	if status == PaymentCompleted {
		p.PaidAmount = p.Amount
		p.RemainingAmount = decimal.Zero
		if p.PaidDate == nil {
			t := now
			p.PaidDate = &t
		}
	} else {
		p.PaidAmount = decimal.Zero
		p.RemainingAmount = p.Amount
		p.PaidDate = nil
	}
	return true
}

// Deletable reports whether the payment may be soft-deleted. Completed
// payments are financially immutable.
func (p *Payment) Deletable() error {
	if p.Status == PaymentCompleted {
		return ErrDeleteCompleted
	}
	return nil
}
