package database

import (
	"database/sql"

	"zawadi-schools/app/models"
)

// CreateExam schedules an exam for a class and subject.
func CreateExam(db *sql.DB, e *models.Exam) error {
	query := `INSERT INTO exams (tenant_id, title, class_name, subject, max_score, exam_date)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, e.TenantID, e.Title, e.ClassName, e.Subject, e.MaxScore, e.ExamDate).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetExam fetches one exam within the tenant.
func GetExam(db *sql.DB, tenantID, examID string) (*models.Exam, error) {
	e := &models.Exam{}
	err := db.QueryRow(`SELECT id, tenant_id, title, class_name, subject, max_score, exam_date, created_at, updated_at
						FROM exams WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, examID,
	).Scan(&e.ID, &e.TenantID, &e.Title, &e.ClassName, &e.Subject, &e.MaxScore, &e.ExamDate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListExams returns tenant exams, optionally limited to one class.
func ListExams(db *sql.DB, tenantID, className string) ([]*models.Exam, error) {
	query := `SELECT id, tenant_id, title, class_name, subject, max_score, exam_date, created_at, updated_at
			  FROM exams WHERE tenant_id = $1 AND deleted_at IS NULL`
	args := []interface{}{tenantID}
	if className != "" {
		query += ` AND class_name = $2`
		args = append(args, className)
	}
	query += ` ORDER BY exam_date DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []*models.Exam
	for rows.Next() {
		e := &models.Exam{}
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Title, &e.ClassName, &e.Subject, &e.MaxScore, &e.ExamDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// SoftDeleteExam hides an exam and its results from listings.
func SoftDeleteExam(db *sql.DB, tenantID, examID string) error {
	res, err := db.Exec(`UPDATE exams SET deleted_at = NOW(), updated_at = NOW()
						 WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, examID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RecordExamResult upserts a student's score. The letter grade is derived
// from the exam's max score, never taken from the client.
func RecordExamResult(db *sql.DB, tenantID string, r *models.ExamResult) error {
	exam, err := GetExam(db, tenantID, r.ExamID)
	if err != nil {
		return err
	}
	r.Grade = models.GradeForScore(r.Score, exam.MaxScore)

	query := `INSERT INTO exam_results (tenant_id, exam_id, student_id, score, grade, comment)
			  VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
			  ON CONFLICT (exam_id, student_id)
			  DO UPDATE SET score = EXCLUDED.score, grade = EXCLUDED.grade,
							comment = EXCLUDED.comment, updated_at = NOW()
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, tenantID, r.ExamID, r.StudentID, r.Score, r.Grade, r.Comment).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

// ListExamResults returns all results for an exam with student names.
func ListExamResults(db *sql.DB, tenantID, examID string) ([]*models.ExamResult, error) {
	rows, err := db.Query(`SELECT r.id, r.tenant_id, r.exam_id, r.student_id, r.score, r.grade,
			COALESCE(r.comment, ''), r.created_at, r.updated_at,
			s.first_name || ' ' || s.last_name
		FROM exam_results r
		JOIN students s ON s.id = r.student_id
		WHERE r.tenant_id = $1 AND r.exam_id = $2
		ORDER BY r.score DESC`,
		tenantID, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.ExamResult
	for rows.Next() {
		r := &models.ExamResult{}
		if err := rows.Scan(&r.ID, &r.TenantID, &r.ExamID, &r.StudentID, &r.Score, &r.Grade, &r.Comment, &r.CreatedAt, &r.UpdatedAt, &r.StudentName); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
