package models

import "time"

// Attendance is one student's attendance record for a calendar day.
// There is at most one row per (tenant, student, date); re-marking upserts.
type Attendance struct {
	ID        string           `json:"id"`
	TenantID  string           `json:"tenant_id"`
	StudentID string           `json:"student_id"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	MarkedBy  *string          `json:"marked_by,omitempty"`
	Remark    string           `json:"remark,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	StudentName string `json:"student_name,omitempty"`
}

// AttendanceSummary is the per-day roll-up shown on dashboards.
type AttendanceSummary struct {
	Date    time.Time `json:"date"`
	Present int       `json:"present"`
	Absent  int       `json:"absent"`
	Late    int       `json:"late"`
	Excused int       `json:"excused"`
}
