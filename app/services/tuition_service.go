package services

import (
	"database/sql"
	"time"

	"zawadi-schools/app/models"

	"github.com/sirupsen/logrus"
)

// GenerateMonthlyTuition creates the month's tuition payment rows for every
// active student with a configured fee, across all tenants. Students that
// already have a tuition row for the month are skipped, so the job is safe to
// re-run. Due date is the 5th of the month.
func GenerateMonthlyTuition(db *sql.DB, month time.Month, year int) (int, error) {
	dueDate := time.Date(year, month, 5, 0, 0, 0, 0, time.Local)

	res, err := db.Exec(`INSERT INTO payments
			(tenant_id, student_id, type, amount, paid_amount, remaining_amount, status, due_date, payment_month, payment_year, notes)
		SELECT s.tenant_id, s.id, $1, s.monthly_tuition_fee, 0, s.monthly_tuition_fee, $2, $3, $4, $5, ''
		FROM students s
		WHERE s.is_active = true AND s.deleted_at IS NULL AND s.monthly_tuition_fee > 0
		  AND NOT EXISTS (
			SELECT 1 FROM payments p
			WHERE p.student_id = s.id AND p.type = $1
			  AND p.payment_month = $4 AND p.payment_year = $5 AND p.deleted_at IS NULL
		  )`,
		string(models.PaymentTuition), string(models.PaymentPending),
		dueDate, int(month), year)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	return int(n), err
}

// LogOverduePayments reports how many open payments are past their due date.
// It only logs; chasing overdue balances stays a human decision.
func LogOverduePayments(db *sql.DB) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM payments
		WHERE status IN ($1, $2) AND due_date < CURRENT_DATE AND deleted_at IS NULL`,
		string(models.PaymentPending), string(models.PaymentPartiallyPaid)).Scan(&count)
	if err != nil {
		logrus.WithError(err).Warn("overdue payment sweep failed")
		return
	}
	if count > 0 {
		logrus.WithField("count", count).Info("payments past due date")
	}
}
