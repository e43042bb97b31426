package database

import (
	"database/sql"

	"zawadi-schools/app/models"
)

// CreateDormRoom adds a room with a fixed capacity.
func CreateDormRoom(db *sql.DB, r *models.DormRoom) error {
	query := `INSERT INTO dorm_rooms (tenant_id, name, building, capacity)
			  VALUES ($1, $2, NULLIF($3, ''), $4)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, r.TenantID, r.Name, r.Building, r.Capacity).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

// ListDormRooms returns rooms with their current occupancy counts.
func ListDormRooms(db *sql.DB, tenantID string) ([]*models.DormRoom, error) {
	rows, err := db.Query(`SELECT r.id, r.tenant_id, r.name, COALESCE(r.building, ''), r.capacity,
			COUNT(a.id) FILTER (WHERE a.released_at IS NULL),
			r.created_at, r.updated_at
		FROM dorm_rooms r
		LEFT JOIN dorm_assignments a ON a.room_id = r.id
		WHERE r.tenant_id = $1 AND r.deleted_at IS NULL
		GROUP BY r.id
		ORDER BY r.building, r.name`,
		tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.DormRoom
	for rows.Next() {
		r := &models.DormRoom{}
		if err := rows.Scan(&r.ID, &r.TenantID, &r.Name, &r.Building, &r.Capacity, &r.Occupied, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// AssignStudentToRoom places a student in a room. The room row is locked so
// concurrent assignments cannot exceed capacity, and a student may hold only
// one active assignment.
func AssignStudentToRoom(db *sql.DB, tenantID, roomID, studentID string) (*models.DormAssignment, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var capacity int
	err = tx.QueryRow(`SELECT capacity FROM dorm_rooms
					   WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
					   FOR UPDATE`,
		tenantID, roomID).Scan(&capacity)
	if err != nil {
		return nil, err
	}

	var occupied int
	err = tx.QueryRow(`SELECT COUNT(*) FROM dorm_assignments
					   WHERE room_id = $1 AND released_at IS NULL`, roomID).Scan(&occupied)
	if err != nil {
		return nil, err
	}
	if occupied >= capacity {
		return nil, models.ErrRoomFull
	}

	var existing int
	err = tx.QueryRow(`SELECT COUNT(*) FROM dorm_assignments
					   WHERE tenant_id = $1 AND student_id = $2 AND released_at IS NULL`,
		tenantID, studentID).Scan(&existing)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, models.ErrAlreadyAssigned
	}

	a := &models.DormAssignment{TenantID: tenantID, RoomID: roomID, StudentID: studentID}
	err = tx.QueryRow(`INSERT INTO dorm_assignments (tenant_id, room_id, student_id)
					   VALUES ($1, $2, $3) RETURNING id, assigned_at`,
		tenantID, roomID, studentID).Scan(&a.ID, &a.AssignedAt)
	if err != nil {
		return nil, err
	}
	return a, tx.Commit()
}

// ReleaseAssignment ends a student's active room assignment.
func ReleaseAssignment(db *sql.DB, tenantID, assignmentID string) error {
	res, err := db.Exec(`UPDATE dorm_assignments SET released_at = NOW()
						 WHERE tenant_id = $1 AND id = $2 AND released_at IS NULL`,
		tenantID, assignmentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListRoomOccupants returns the active assignments for a room with names.
func ListRoomOccupants(db *sql.DB, tenantID, roomID string) ([]*models.DormAssignment, error) {
	rows, err := db.Query(`SELECT a.id, a.tenant_id, a.room_id, a.student_id, a.assigned_at,
			s.first_name || ' ' || s.last_name, r.name
		FROM dorm_assignments a
		JOIN students s ON s.id = a.student_id
		JOIN dorm_rooms r ON r.id = a.room_id
		WHERE a.tenant_id = $1 AND a.room_id = $2 AND a.released_at IS NULL
		ORDER BY a.assigned_at`,
		tenantID, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*models.DormAssignment
	for rows.Next() {
		a := &models.DormAssignment{}
		if err := rows.Scan(&a.ID, &a.TenantID, &a.RoomID, &a.StudentID, &a.AssignedAt, &a.StudentName, &a.RoomName); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
