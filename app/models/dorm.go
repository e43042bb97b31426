package models

import (
	"errors"
	"time"
)

// ErrRoomFull is returned when assigning a student to a room at capacity.
var ErrRoomFull = errors.New("dormitory room is at full capacity")

// ErrAlreadyAssigned is returned when a student already has an active
// dormitory assignment.
var ErrAlreadyAssigned = errors.New("student already has an active dormitory assignment")

// DormRoom is a dormitory room with a fixed bed capacity.
type DormRoom struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"tenant_id"`
	Name      string     `json:"name" validate:"required"`
	Building  string     `json:"building,omitempty"`
	Capacity  int        `json:"capacity" validate:"required,gt=0"`
	Occupied  int        `json:"occupied"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// DormAssignment places a student in a room. A student has at most one
// assignment without a released_at timestamp.
type DormAssignment struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"tenant_id"`
	RoomID     string     `json:"room_id"`
	StudentID  string     `json:"student_id"`
	AssignedAt time.Time  `json:"assigned_at"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`

	StudentName string `json:"student_name,omitempty"`
	RoomName    string `json:"room_name,omitempty"`
}
