package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"zawadi-schools/app/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PaymentFilters narrows ListPayments results.
type PaymentFilters struct {
	StudentID string
	Status    string
	Type      string
	Month     int
	Year      int
	Limit     int
	Offset    int
}

// InstallmentResult is what the installment endpoint returns to the UI.
type InstallmentResult struct {
	Payment     *models.Payment `json:"payment"`
	StudentName string          `json:"student_name"`
	Message     string          `json:"message"`
}

// CreatePayment inserts a new billing obligation. Month and year are derived
// from the due date so tuition rows group by calendar month.
func CreatePayment(db *sql.DB, p *models.Payment) error {
	p.PaymentMonth = int(p.DueDate.Month())
	p.PaymentYear = p.DueDate.Year()
	p.PaidAmount = decimal.Zero
	p.RemainingAmount = p.Amount
	p.Status = models.PaymentPending

	query := `INSERT INTO payments (tenant_id, student_id, type, amount, paid_amount, remaining_amount, status, due_date, payment_month, payment_year, notes)
			  VALUES ($1, $2, $3, $4, 0, $4, $5, $6, $7, $8, $9)
			  RETURNING id, version, created_at, updated_at`
	return db.QueryRow(query,
		p.TenantID, p.StudentID, string(p.Type), p.Amount, string(p.Status),
		p.DueDate, p.PaymentMonth, p.PaymentYear, p.Notes,
	).Scan(&p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt)
}

const paymentColumns = `p.id, p.tenant_id, p.student_id, p.type, p.amount, p.paid_amount, p.remaining_amount,
	p.status, p.due_date, p.payment_month, p.payment_year, p.paid_date, p.payment_method, p.received_by,
	p.notes, p.version, p.created_at, p.updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner, withStudent bool) (*models.Payment, error) {
	p := &models.Payment{}
	var (
		ptype      string
		status     string
		paidDate   sql.NullTime
		method     sql.NullString
		receivedBy sql.NullString
		firstName  sql.NullString
		lastName   sql.NullString
	)

	dest := []interface{}{
		&p.ID, &p.TenantID, &p.StudentID, &ptype, &p.Amount, &p.PaidAmount, &p.RemainingAmount,
		&status, &p.DueDate, &p.PaymentMonth, &p.PaymentYear, &paidDate, &method, &receivedBy,
		&p.Notes, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	}
	if withStudent {
		dest = append(dest, &firstName, &lastName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	p.Type = models.PaymentType(ptype)
	p.Status = models.PaymentStatus(status)
	if paidDate.Valid {
		t := paidDate.Time
		p.PaidDate = &t
	}
	if method.Valid {
		p.PaymentMethod = method.String
	}
	if receivedBy.Valid {
		id := receivedBy.String
		p.ReceivedByID = &id
	}
	if firstName.Valid {
		p.StudentName = strings.TrimSpace(firstName.String + " " + lastName.String)
	}
	return p, nil
}

// GetPayment fetches one payment within the tenant, with the student name.
func GetPayment(db *sql.DB, tenantID, paymentID string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + `, s.first_name, s.last_name
			  FROM payments p
			  JOIN students s ON s.id = p.student_id
			  WHERE p.tenant_id = $1 AND p.id = $2 AND p.deleted_at IS NULL`
	return scanPayment(db.QueryRow(query, tenantID, paymentID), true)
}

// ListPayments returns tenant payments matching the filters, newest first.
func ListPayments(db *sql.DB, tenantID string, f PaymentFilters) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + `, s.first_name, s.last_name
			  FROM payments p
			  JOIN students s ON s.id = p.student_id
			  WHERE p.tenant_id = $1 AND p.deleted_at IS NULL`
	args := []interface{}{tenantID}

	add := func(cond string, val interface{}) {
		args = append(args, val)
		query += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.StudentID != "" {
		add("p.student_id = $%d", f.StudentID)
	}
	if f.Status != "" {
		add("p.status = $%d", f.Status)
	}
	if f.Type != "" {
		add("p.type = $%d", f.Type)
	}
	if f.Month != 0 {
		add("p.payment_month = $%d", f.Month)
	}
	if f.Year != 0 {
		add("p.payment_year = $%d", f.Year)
	}

	query += " ORDER BY p.created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		if f.Offset > 0 {
			args = append(args, f.Offset)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows, true)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// AddInstallment records a partial payment against a payment row. The row
// update, ledger append and (for tuition) monthly reconciliation run in one
// transaction; the row is locked for the duration and the version column
// guards writers that bypass the lock.
func AddInstallment(db *sql.DB, tenantID, paymentID string, amount decimal.Decimal, method, note, receivedBy string) (*InstallmentResult, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	lockQuery := `SELECT ` + paymentColumns + `, s.first_name, s.last_name, s.monthly_tuition_fee
				  FROM payments p
				  JOIN students s ON s.id = p.student_id
				  WHERE p.tenant_id = $1 AND p.id = $2 AND p.deleted_at IS NULL
				  FOR UPDATE OF p`

	p := &models.Payment{}
	var (
		ptype, status      string
		paidDate           sql.NullTime
		pmethod, recvBy    sql.NullString
		firstName, lastName string
		monthlyFee         decimal.Decimal
	)
	err = tx.QueryRow(lockQuery, tenantID, paymentID).Scan(
		&p.ID, &p.TenantID, &p.StudentID, &ptype, &p.Amount, &p.PaidAmount, &p.RemainingAmount,
		&status, &p.DueDate, &p.PaymentMonth, &p.PaymentYear, &paidDate, &pmethod, &recvBy,
		&p.Notes, &p.Version, &p.CreatedAt, &p.UpdatedAt,
		&firstName, &lastName, &monthlyFee,
	)
	if err != nil {
		return nil, err
	}
	p.Type = models.PaymentType(ptype)
	p.Status = models.PaymentStatus(status)
	if paidDate.Valid {
		t := paidDate.Time
		p.PaidDate = &t
	}
	if pmethod.Valid {
		p.PaymentMethod = pmethod.String
	}
	p.StudentName = strings.TrimSpace(firstName + " " + lastName)

	prevVersion := p.Version
	entry, err := p.ApplyInstallment(amount, method, note, receivedBy, time.Now())
	if err != nil {
		return nil, err
	}

	res, err := tx.Exec(`UPDATE payments
		SET paid_amount = $1, remaining_amount = $2, status = $3, paid_date = $4,
			payment_method = NULLIF($5, ''), received_by = COALESCE(NULLIF($6, '')::uuid, received_by),
			notes = $7, version = version + 1, updated_at = NOW()
		WHERE tenant_id = $8 AND id = $9 AND version = $10`,
		p.PaidAmount, p.RemainingAmount, string(p.Status), p.PaidDate,
		p.PaymentMethod, receivedBy, p.Notes, tenantID, paymentID, prevVersion,
	)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrVersionConflict
	}
	p.Version = prevVersion + 1

	err = tx.QueryRow(`INSERT INTO payment_ledger (tenant_id, payment_id, amount, method, note, recorded_by, recorded_at)
					   VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, '')::uuid, $7)
					   RETURNING id`,
		tenantID, paymentID, entry.Amount, entry.Method, entry.Note, receivedBy, entry.RecordedAt,
	).Scan(&entry.ID)
	if err != nil {
		return nil, err
	}

	// Monthly reconciliation is best-effort: its failure must never undo an
	// installment that was accepted.
	if p.Type == models.PaymentTuition && monthlyFee.IsPositive() {
		updated, rerr := reconcileMonthlyTuition(tx, tenantID, p.StudentID, p.PaymentMonth, p.PaymentYear, monthlyFee)
		if rerr != nil {
			logrus.WithError(rerr).WithFields(logrus.Fields{
				"student_id": p.StudentID,
				"month":      p.PaymentMonth,
				"year":       p.PaymentYear,
			}).Warn("monthly tuition reconciliation failed")
		} else if updated > 0 {
			// Our own row may have been completed by the month-settled rule.
			refreshed, rerr := scanPayment(tx.QueryRow(`SELECT `+paymentColumns+` FROM payments p WHERE p.tenant_id = $1 AND p.id = $2`, tenantID, paymentID), false)
			if rerr == nil {
				refreshed.StudentName = p.StudentName
				refreshed.Type = p.Type
				p = refreshed
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Installment of %s recorded; %s remaining", amount.StringFixed(2), p.RemainingAmount.StringFixed(2))
	if p.Status == models.PaymentCompleted {
		msg = fmt.Sprintf("Installment of %s recorded; payment completed", amount.StringFixed(2))
	}
	return &InstallmentResult{Payment: p, StudentName: p.StudentName, Message: msg}, nil
}

type execQuerier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// reconcileMonthlyTuition applies the month-settled policy: once the sum of
// paid amounts across a student's tuition rows for a month reaches the
// configured fee, every row still below completed is marked completed.
func reconcileMonthlyTuition(q execQuerier, tenantID, studentID string, month, year int, monthlyFee decimal.Decimal) (int, error) {
	var paidTotal decimal.Decimal
	err := q.QueryRow(`SELECT COALESCE(SUM(paid_amount), 0)
					   FROM payments
					   WHERE tenant_id = $1 AND student_id = $2 AND type = $3
						 AND payment_month = $4 AND payment_year = $5 AND deleted_at IS NULL`,
		tenantID, studentID, string(models.PaymentTuition), month, year,
	).Scan(&paidTotal)
	if err != nil {
		return 0, err
	}

	if paidTotal.LessThan(monthlyFee) {
		return 0, nil
	}

	res, err := q.Exec(`UPDATE payments
		SET status = $1, paid_amount = amount, remaining_amount = 0,
			paid_date = COALESCE(paid_date, NOW()), version = version + 1, updated_at = NOW()
		WHERE tenant_id = $2 AND student_id = $3 AND type = $4
		  AND payment_month = $5 AND payment_year = $6 AND deleted_at IS NULL
		  AND status IN ($7, $8)`,
		string(models.PaymentCompleted), tenantID, studentID, string(models.PaymentTuition),
		month, year, string(models.PaymentPending), string(models.PaymentPartiallyPaid),
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ReconcileMonthlyTuition is the standalone form used when a student's fee
// changes outside an installment write; it wraps the check in its own
// transaction and reports how many rows changed. Callers treat it as
// best-effort and only log failures.
func ReconcileMonthlyTuition(db *sql.DB, tenantID, studentID string, month, year int, monthlyFee decimal.Decimal) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	updated, err := reconcileMonthlyTuition(tx, tenantID, studentID, month, year, monthlyFee)
	if err != nil {
		return 0, err
	}
	return updated, tx.Commit()
}

// BulkChangeStatus forces the given payments into a target status, rewriting
// amounts so numeric state stays consistent and appending an adjustment row
// to the ledger for every change. Returns the number of rows changed.
func BulkChangeStatus(db *sql.DB, tenantID string, paymentIDs []string, status models.PaymentStatus, actorID string) (int, error) {
	if !models.ValidPaymentStatus(status) {
		return 0, fmt.Errorf("unknown payment status %q", status)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT `+paymentColumns+`, s.monthly_tuition_fee
						   FROM payments p
						   JOIN students s ON s.id = p.student_id
						   WHERE p.tenant_id = $1 AND p.id = ANY($2) AND p.deleted_at IS NULL
						   FOR UPDATE OF p`,
		tenantID, pq.Array(paymentIDs))
	if err != nil {
		return 0, err
	}

	type monthKey struct {
		studentID   string
		month, year int
	}
	var payments []*models.Payment
	fees := map[monthKey]decimal.Decimal{}

	for rows.Next() {
		p := &models.Payment{}
		var (
			ptype, pstatus  string
			paidDate        sql.NullTime
			pmethod, recvBy sql.NullString
			monthlyFee      decimal.Decimal
		)
		err := rows.Scan(
			&p.ID, &p.TenantID, &p.StudentID, &ptype, &p.Amount, &p.PaidAmount, &p.RemainingAmount,
			&pstatus, &p.DueDate, &p.PaymentMonth, &p.PaymentYear, &paidDate, &pmethod, &recvBy,
			&p.Notes, &p.Version, &p.CreatedAt, &p.UpdatedAt, &monthlyFee,
		)
		if err != nil {
			rows.Close()
			return 0, err
		}
		p.Type = models.PaymentType(ptype)
		p.Status = models.PaymentStatus(pstatus)
		if paidDate.Valid {
			t := paidDate.Time
			p.PaidDate = &t
		}
		payments = append(payments, p)
		fees[monthKey{p.StudentID, p.PaymentMonth, p.PaymentYear}] = monthlyFee
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	now := time.Now()
	changed := 0
	reconcile := map[monthKey]bool{}

	for _, p := range payments {
		oldPaid := p.PaidAmount
		if !p.ForceStatus(status, now) {
			continue
		}

		res, err := tx.Exec(`UPDATE payments
			SET status = $1, paid_amount = $2, remaining_amount = $3, paid_date = $4,
				version = version + 1, updated_at = NOW()
			WHERE tenant_id = $5 AND id = $6 AND version = $7`,
			string(p.Status), p.PaidAmount, p.RemainingAmount, p.PaidDate,
			tenantID, p.ID, p.Version)
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, ErrVersionConflict
		}

		_, err = tx.Exec(`INSERT INTO payment_ledger (tenant_id, payment_id, amount, note, recorded_by)
						  VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid)`,
			tenantID, p.ID, p.PaidAmount.Sub(oldPaid),
			fmt.Sprintf("status override to %s", status), actorID)
		if err != nil {
			return 0, err
		}

		changed++
		if p.Type == models.PaymentTuition && status == models.PaymentCompleted {
			reconcile[monthKey{p.StudentID, p.PaymentMonth, p.PaymentYear}] = true
		}
	}

	for key := range reconcile {
		fee := fees[key]
		if !fee.IsPositive() {
			continue
		}
		if _, rerr := reconcileMonthlyTuition(tx, tenantID, key.studentID, key.month, key.year, fee); rerr != nil {
			logrus.WithError(rerr).WithField("student_id", key.studentID).Warn("reconciliation after bulk status change failed")
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return changed, nil
}

// SoftDeletePayment removes a payment from view. Completed payments are
// immutable and can only be reversed through a refunded status change.
func SoftDeletePayment(db *sql.DB, tenantID, paymentID string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRow(`SELECT status FROM payments
					   WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
					   FOR UPDATE`,
		tenantID, paymentID).Scan(&status)
	if err != nil {
		return err
	}

	p := &models.Payment{Status: models.PaymentStatus(status)}
	if err := p.Deletable(); err != nil {
		return err
	}

	_, err = tx.Exec(`UPDATE payments SET deleted_at = NOW(), version = version + 1, updated_at = NOW()
					  WHERE tenant_id = $1 AND id = $2`, tenantID, paymentID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// UpdatePaymentAmount edits the total owed; allowed only while pending.
func UpdatePaymentAmount(db *sql.DB, tenantID, paymentID string, amount decimal.Decimal, dueDate time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return models.ErrNonPositiveAmount
	}
	res, err := db.Exec(`UPDATE payments
		SET amount = $1, remaining_amount = $1, due_date = $2,
			payment_month = $3, payment_year = $4, version = version + 1, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6 AND status = $7 AND deleted_at IS NULL`,
		amount, dueDate, int(dueDate.Month()), dueDate.Year(),
		tenantID, paymentID, string(models.PaymentPending))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetPaymentLedger returns the append-only installment history for a payment.
func GetPaymentLedger(db *sql.DB, tenantID, paymentID string) ([]*models.LedgerEntry, error) {
	rows, err := db.Query(`SELECT id, tenant_id, payment_id, amount, method, note, recorded_by, recorded_at
						   FROM payment_ledger
						   WHERE tenant_id = $1 AND payment_id = $2
						   ORDER BY recorded_at`,
		tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		e := &models.LedgerEntry{}
		var method, note, recordedBy sql.NullString
		if err := rows.Scan(&e.ID, &e.TenantID, &e.PaymentID, &e.Amount, &method, &note, &recordedBy, &e.RecordedAt); err != nil {
			return nil, err
		}
		e.Method = method.String
		e.Note = note.String
		if recordedBy.Valid {
			id := recordedBy.String
			e.RecordedBy = &id
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PaymentStats summarizes a tenant's payment position for dashboards.
type PaymentStats struct {
	TotalPayments    int             `json:"total_payments"`
	Pending          int             `json:"pending"`
	PartiallyPaid    int             `json:"partially_paid"`
	Completed        int             `json:"completed"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// GetPaymentStats aggregates payments, optionally limited to one month.
func GetPaymentStats(db *sql.DB, tenantID string, month, year int) (*PaymentStats, error) {
	query := `SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'partially_paid'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COALESCE(SUM(paid_amount), 0),
			COALESCE(SUM(remaining_amount) FILTER (WHERE status IN ('pending', 'partially_paid')), 0)
		FROM payments
		WHERE tenant_id = $1 AND deleted_at IS NULL`
	args := []interface{}{tenantID}
	if month != 0 && year != 0 {
		query += ` AND payment_month = $2 AND payment_year = $3`
		args = append(args, month, year)
	}

	stats := &PaymentStats{}
	err := db.QueryRow(query, args...).Scan(
		&stats.TotalPayments, &stats.Pending, &stats.PartiallyPaid, &stats.Completed,
		&stats.TotalCollected, &stats.TotalOutstanding,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
