package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileMonthlyTuitionCompletesMonth(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Two tuition rows whose paid amounts sum to the fee: both must flip to
	// completed once the sum is reached.
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(paid_amount\), 0\)`).
		WithArgs("tenant-1", "student-1", "tuition", 3, 2026).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("100000"))
	mock.ExpectExec(`UPDATE payments`).
		WithArgs("completed", "tenant-1", "student-1", "tuition", 3, 2026, "pending", "partially_paid").
		WillReturnResult(sqlmock.NewResult(0, 2))

	updated, err := reconcileMonthlyTuition(db, "tenant-1", "student-1", 3, 2026, decimal.NewFromInt(100000))
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileMonthlyTuitionBelowFeeIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(paid_amount\), 0\)`).
		WithArgs("tenant-1", "student-1", "tuition", 3, 2026).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("40000"))

	updated, err := reconcileMonthlyTuition(db, "tenant-1", "student-1", 3, 2026, decimal.NewFromInt(100000))
	require.NoError(t, err)
	assert.Equal(t, 0, updated)

	// No UPDATE may run while the month's total is below the fee.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileMonthlyTuitionStandaloneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(paid_amount\), 0\)`).
		WithArgs("tenant-1", "student-1", "tuition", 3, 2026).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("120000"))
	mock.ExpectExec(`UPDATE payments`).
		WithArgs("completed", "tenant-1", "student-1", "tuition", 3, 2026, "pending", "partially_paid").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := ReconcileMonthlyTuition(db, "tenant-1", "student-1", 3, 2026, decimal.NewFromInt(100000))
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}
