package database

import (
	"database/sql"
	"time"

	"zawadi-schools/app/models"
)

// AttendanceMark is one entry in a bulk marking submission.
type AttendanceMark struct {
	StudentID string                  `json:"student_id" validate:"required,uuid"`
	Status    models.AttendanceStatus `json:"status" validate:"required"`
	Remark    string                  `json:"remark,omitempty"`
}

// MarkAttendance upserts attendance rows for a set of students on one date.
// Re-marking the same student and date overwrites the earlier status.
func MarkAttendance(db *sql.DB, tenantID string, date time.Time, markedBy string, marks []AttendanceMark) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO attendance (tenant_id, student_id, date, status, marked_by, remark)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, NULLIF($6, ''))
		ON CONFLICT (tenant_id, student_id, date)
		DO UPDATE SET status = EXCLUDED.status, marked_by = EXCLUDED.marked_by,
					  remark = EXCLUDED.remark, updated_at = NOW()`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, m := range marks {
		if _, err := stmt.Exec(tenantID, m.StudentID, date, string(m.Status), markedBy, m.Remark); err != nil {
			return 0, err
		}
		count++
	}
	return count, tx.Commit()
}

// GetStudentAttendance returns a student's attendance history within a range.
func GetStudentAttendance(db *sql.DB, tenantID, studentID string, from, to time.Time) ([]*models.Attendance, error) {
	rows, err := db.Query(`SELECT a.id, a.tenant_id, a.student_id, a.date, a.status,
			a.marked_by, COALESCE(a.remark, ''), a.created_at, a.updated_at
		FROM attendance a
		WHERE a.tenant_id = $1 AND a.student_id = $2 AND a.date BETWEEN $3 AND $4
		ORDER BY a.date DESC`,
		tenantID, studentID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.Attendance
	for rows.Next() {
		a := &models.Attendance{}
		var status string
		var markedBy sql.NullString
		if err := rows.Scan(&a.ID, &a.TenantID, &a.StudentID, &a.Date, &status, &markedBy, &a.Remark, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Status = models.AttendanceStatus(status)
		if markedBy.Valid {
			id := markedBy.String
			a.MarkedBy = &id
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// GetDailyAttendance returns all marks for a date with student names.
func GetDailyAttendance(db *sql.DB, tenantID string, date time.Time) ([]*models.Attendance, error) {
	rows, err := db.Query(`SELECT a.id, a.tenant_id, a.student_id, a.date, a.status,
			a.marked_by, COALESCE(a.remark, ''), a.created_at, a.updated_at,
			s.first_name || ' ' || s.last_name
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.tenant_id = $1 AND a.date = $2
		ORDER BY s.first_name, s.last_name`,
		tenantID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.Attendance
	for rows.Next() {
		a := &models.Attendance{}
		var status string
		var markedBy sql.NullString
		if err := rows.Scan(&a.ID, &a.TenantID, &a.StudentID, &a.Date, &status, &markedBy, &a.Remark, &a.CreatedAt, &a.UpdatedAt, &a.StudentName); err != nil {
			return nil, err
		}
		a.Status = models.AttendanceStatus(status)
		if markedBy.Valid {
			id := markedBy.String
			a.MarkedBy = &id
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// GetAttendanceSummary rolls up one day's counts per status.
func GetAttendanceSummary(db *sql.DB, tenantID string, date time.Time) (*models.AttendanceSummary, error) {
	summary := &models.AttendanceSummary{Date: date}
	err := db.QueryRow(`SELECT
			COUNT(*) FILTER (WHERE status = 'present'),
			COUNT(*) FILTER (WHERE status = 'absent'),
			COUNT(*) FILTER (WHERE status = 'late'),
			COUNT(*) FILTER (WHERE status = 'excused')
		FROM attendance
		WHERE tenant_id = $1 AND date = $2`,
		tenantID, date,
	).Scan(&summary.Present, &summary.Absent, &summary.Late, &summary.Excused)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
