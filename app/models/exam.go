package models

import "time"

// Exam is a scheduled assessment for a class and subject.
type Exam struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"tenant_id"`
	Title     string     `json:"title" validate:"required"`
	ClassName string     `json:"class_name" validate:"required"`
	Subject   string     `json:"subject" validate:"required"`
	MaxScore  float64    `json:"max_score" validate:"required,gt=0"`
	ExamDate  time.Time  `json:"exam_date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// ExamResult is a single student's score on an exam. Grade is derived from
// the score as a percentage of the exam's maximum, never stored by hand.
type ExamResult struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	ExamID    string    `json:"exam_id"`
	StudentID string    `json:"student_id"`
	Score     float64   `json:"score"`
	Grade     string    `json:"grade"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StudentName string `json:"student_name,omitempty"`
}

// GradeForScore maps a score against a maximum to a letter grade.
func GradeForScore(score, maxScore float64) string {
	if maxScore <= 0 {
		return "N/A"
	}
	pct := score / maxScore * 100
	switch {
	case pct >= 80:
		return "A"
	case pct >= 70:
		return "B"
	case pct >= 60:
		return "C"
	case pct >= 50:
		return "D"
	case pct >= 40:
		return "E"
	default:
		return "F"
	}
}
