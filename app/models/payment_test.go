package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTuitionPayment(amount string) *Payment {
	return &Payment{
		ID:              "pay-1",
		TenantID:        "tenant-1",
		StudentID:       "student-1",
		Type:            PaymentTuition,
		Amount:          decimal.RequireFromString(amount),
		PaidAmount:      decimal.Zero,
		RemainingAmount: decimal.RequireFromString(amount),
		Status:          PaymentPending,
		DueDate:         time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		PaymentMonth:    3,
		PaymentYear:     2026,
	}
}

func TestStatusForAmounts(t *testing.T) {
	total := decimal.NewFromInt(100000)

	cases := []struct {
		name string
		paid decimal.Decimal
		want PaymentStatus
	}{
		{"nothing paid", decimal.Zero, PaymentPending},
		{"partial", decimal.NewFromInt(40000), PaymentPartiallyPaid},
		{"one short", decimal.NewFromInt(99999), PaymentPartiallyPaid},
		{"exact", decimal.NewFromInt(100000), PaymentCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusForAmounts(total, tc.paid))
		})
	}
}

func TestApplyInstallmentPartialThenComplete(t *testing.T) {
	p := newTuitionPayment("100000")
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	entry, err := p.ApplyInstallment(decimal.NewFromInt(40000), "cash", "first term", "user-1", now)
	require.NoError(t, err)

	assert.True(t, p.PaidAmount.Equal(decimal.NewFromInt(40000)), "paid = %s", p.PaidAmount)
	assert.True(t, p.RemainingAmount.Equal(decimal.NewFromInt(60000)), "remaining = %s", p.RemainingAmount)
	assert.Equal(t, PaymentPartiallyPaid, p.Status)
	require.NotNil(t, p.PaidDate)
	assert.Equal(t, now, *p.PaidDate)
	assert.Equal(t, "cash", p.PaymentMethod)

	require.NotNil(t, entry)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(40000)))
	assert.Equal(t, "pay-1", entry.PaymentID)
	require.NotNil(t, entry.RecordedBy)
	assert.Equal(t, "user-1", *entry.RecordedBy)

	later := now.Add(48 * time.Hour)
	_, err = p.ApplyInstallment(decimal.NewFromInt(60000), "bank", "", "user-1", later)
	require.NoError(t, err)

	assert.Equal(t, PaymentCompleted, p.Status)
	assert.True(t, p.PaidAmount.Equal(p.Amount))
	assert.True(t, p.RemainingAmount.IsZero())
	assert.Equal(t, later, *p.PaidDate, "completion restamps paid date")
}

func TestApplyInstallmentKeepsAmountsConsistent(t *testing.T) {
	p := newTuitionPayment("75500.50")
	now := time.Now()

	for _, amt := range []string{"500.25", "25000", "10000.25"} {
		_, err := p.ApplyInstallment(decimal.RequireFromString(amt), "cash", "", "", now)
		require.NoError(t, err)
		assert.True(t, p.PaidAmount.Add(p.RemainingAmount).Equal(p.Amount),
			"paid %s + remaining %s != amount %s", p.PaidAmount, p.RemainingAmount, p.Amount)
		assert.False(t, p.RemainingAmount.IsNegative())
	}
}

func TestApplyInstallmentOverpayment(t *testing.T) {
	p := newTuitionPayment("100000")
	now := time.Now()

	_, err := p.ApplyInstallment(decimal.NewFromInt(40000), "cash", "", "", now)
	require.NoError(t, err)

	_, err = p.ApplyInstallment(decimal.NewFromInt(70000), "cash", "", "", now)
	var over *OverpaymentError
	require.ErrorAs(t, err, &over)
	assert.True(t, over.MaxAcceptable.Equal(decimal.NewFromInt(60000)))
	assert.Contains(t, over.Error(), "60000.00")

	// Rejection must not mutate the payment.
	assert.True(t, p.PaidAmount.Equal(decimal.NewFromInt(40000)))
	assert.True(t, p.RemainingAmount.Equal(decimal.NewFromInt(60000)))
	assert.Equal(t, PaymentPartiallyPaid, p.Status)

	// The exact remainder is still accepted.
	_, err = p.ApplyInstallment(decimal.NewFromInt(60000), "cash", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, PaymentCompleted, p.Status)
}

func TestApplyInstallmentRejectsNonPositive(t *testing.T) {
	p := newTuitionPayment("100000")
	now := time.Now()

	_, err := p.ApplyInstallment(decimal.Zero, "cash", "", "", now)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = p.ApplyInstallment(decimal.NewFromInt(-500), "cash", "", "", now)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	assert.Equal(t, PaymentPending, p.Status)
	assert.True(t, p.PaidAmount.IsZero())
}

func TestApplyInstallmentRejectsSettledAndClosed(t *testing.T) {
	now := time.Now()

	completed := newTuitionPayment("100000")
	completed.ForceStatus(PaymentCompleted, now)
	_, err := completed.ApplyInstallment(decimal.NewFromInt(1), "cash", "", "", now)
	assert.ErrorIs(t, err, ErrPaymentCompleted)

	for _, status := range []PaymentStatus{PaymentFailed, PaymentRefunded} {
		p := newTuitionPayment("100000")
		p.ForceStatus(status, now)
		_, err := p.ApplyInstallment(decimal.NewFromInt(1), "cash", "", "", now)
		assert.ErrorIs(t, err, ErrPaymentClosed, "status %s", status)
	}
}

func TestApplyInstallmentNotes(t *testing.T) {
	p := newTuitionPayment("100000")
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	_, err := p.ApplyInstallment(decimal.NewFromInt(40000), "mobile money", "receipt 17", "", now)
	require.NoError(t, err)
	assert.Equal(t, "[2026-03-10 09:30] received 40000.00 via mobile money - receipt 17", p.Notes)

	_, err = p.ApplyInstallment(decimal.NewFromInt(10000), "", "", "", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "[2026-03-10 09:30] received 40000.00 via mobile money - receipt 17\n[2026-03-10 10:30] received 10000.00", p.Notes)
}

func TestForceStatus(t *testing.T) {
	now := time.Now()

	p := newTuitionPayment("100000")
	require.True(t, p.ForceStatus(PaymentCompleted, now))
	assert.True(t, p.PaidAmount.Equal(p.Amount))
	assert.True(t, p.RemainingAmount.IsZero())
	require.NotNil(t, p.PaidDate)

	// Same status again is a no-op.
	assert.False(t, p.ForceStatus(PaymentCompleted, now))

	require.True(t, p.ForceStatus(PaymentRefunded, now))
	assert.True(t, p.PaidAmount.IsZero())
	assert.True(t, p.RemainingAmount.Equal(p.Amount))
	assert.Nil(t, p.PaidDate)
}

func TestDeletable(t *testing.T) {
	now := time.Now()

	p := newTuitionPayment("100000")
	assert.NoError(t, p.Deletable())

	_, err := p.ApplyInstallment(decimal.NewFromInt(40000), "cash", "", "", now)
	require.NoError(t, err)
	assert.NoError(t, p.Deletable(), "partially paid is still deletable")

	p.ForceStatus(PaymentCompleted, now)
	assert.True(t, errors.Is(p.Deletable(), ErrDeleteCompleted))
}
