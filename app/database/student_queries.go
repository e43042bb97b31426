package database

import (
	"database/sql"
	"fmt"

	"zawadi-schools/app/models"
)

// StudentFilters narrows ListStudents results.
type StudentFilters struct {
	Search    string
	ClassName string
	Active    *bool
	Limit     int
	Offset    int
}

// CreateStudent enrolls a student in the tenant.
func CreateStudent(db *sql.DB, s *models.Student) error {
	query := `INSERT INTO students (tenant_id, student_code, first_name, last_name, gender, class_name, guardian_name, guardian_phone, monthly_tuition_fee)
			  VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9)
			  RETURNING id, is_active, created_at, updated_at`
	return db.QueryRow(query,
		s.TenantID, s.StudentCode, s.FirstName, s.LastName, string(s.Gender),
		s.ClassName, s.GuardianName, s.GuardianPhone, s.MonthlyTuitionFee,
	).Scan(&s.ID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
}

const studentColumns = `id, tenant_id, student_code, first_name, last_name, COALESCE(gender, ''),
	COALESCE(class_name, ''), COALESCE(guardian_name, ''), COALESCE(guardian_phone, ''),
	monthly_tuition_fee, is_active, created_at, updated_at`

func scanStudent(row rowScanner) (*models.Student, error) {
	s := &models.Student{}
	var gender string
	err := row.Scan(
		&s.ID, &s.TenantID, &s.StudentCode, &s.FirstName, &s.LastName, &gender,
		&s.ClassName, &s.GuardianName, &s.GuardianPhone,
		&s.MonthlyTuitionFee, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Gender = models.Gender(gender)
	return s, nil
}

// GetStudent fetches one student within the tenant.
func GetStudent(db *sql.DB, tenantID, studentID string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students
			  WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	return scanStudent(db.QueryRow(query, tenantID, studentID))
}

// ListStudents returns tenant students matching the filters.
func ListStudents(db *sql.DB, tenantID string, f StudentFilters) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students
			  WHERE tenant_id = $1 AND deleted_at IS NULL`
	args := []interface{}{tenantID}

	if f.Active != nil {
		args = append(args, *f.Active)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	if f.ClassName != "" {
		args = append(args, f.ClassName)
		query += fmt.Sprintf(" AND class_name = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (student_code ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d
			OR first_name || ' ' || last_name ILIKE $%d)`, n, n, n, n)
	}

	query += " ORDER BY first_name, last_name"
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

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// UpdateStudent edits a student's profile fields.
func UpdateStudent(db *sql.DB, s *models.Student) error {
	res, err := db.Exec(`UPDATE students
		SET first_name = $1, last_name = $2, gender = NULLIF($3, ''), class_name = NULLIF($4, ''),
			guardian_name = NULLIF($5, ''), guardian_phone = NULLIF($6, ''),
			monthly_tuition_fee = $7, is_active = $8, updated_at = NOW()
		WHERE tenant_id = $9 AND id = $10 AND deleted_at IS NULL`,
		s.FirstName, s.LastName, string(s.Gender), s.ClassName,
		s.GuardianName, s.GuardianPhone, s.MonthlyTuitionFee, s.IsActive,
		s.TenantID, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDeleteStudent deactivates and hides a student.
func SoftDeleteStudent(db *sql.DB, tenantID, studentID string) error {
	res, err := db.Exec(`UPDATE students SET is_active = false, deleted_at = NOW(), updated_at = NOW()
						 WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, studentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetStudentFinanceSummary aggregates a student's billing position across all
// of their non-deleted payments.
func GetStudentFinanceSummary(db *sql.DB, tenantID, studentID string) (*models.StudentFinanceSummary, error) {
	summary := &models.StudentFinanceSummary{StudentID: studentID}
	err := db.QueryRow(`SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(paid_amount), 0),
			COALESCE(SUM(remaining_amount) FILTER (WHERE status IN ('pending', 'partially_paid')), 0),
			COUNT(*) FILTER (WHERE status IN ('pending', 'partially_paid'))
		FROM payments
		WHERE tenant_id = $1 AND student_id = $2 AND deleted_at IS NULL`,
		tenantID, studentID,
	).Scan(&summary.TotalBilled, &summary.TotalPaid, &summary.TotalOutstanding, &summary.OpenPayments)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
