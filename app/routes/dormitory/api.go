package dormitory

import (
	"database/sql"
	"errors"

	"zawadi-schools/app/database"
	"zawadi-schools/app/models"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// CreateRoomRequest is the body for adding a dormitory room.
type CreateRoomRequest struct {
	Name     string `json:"name" validate:"required"`
	Building string `json:"building"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
}

// AssignRequest is the body for placing a student in a room.
type AssignRequest struct {
	RoomID    string `json:"room_id" validate:"required,uuid"`
	StudentID string `json:"student_id" validate:"required,uuid"`
}

// CreateRoomAPI adds a room with a fixed capacity.
func CreateRoomAPI(c *fiber.Ctx, db *sql.DB) error {
	var req CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := models.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, models.ValidationMessage(err))
	}

	room := &models.DormRoom{
		TenantID: auth.TenantID(c),
		Name:     req.Name,
		Building: req.Building,
		Capacity: req.Capacity,
	}
	if err := database.CreateDormRoom(db, room); err != nil {
		logrus.WithError(err).Error("failed to create dorm room")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create room")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    room,
		"message": "Room created successfully",
	})
}

// ListRoomsAPI returns rooms with occupancy counts.
func ListRoomsAPI(c *fiber.Ctx, db *sql.DB) error {
	rooms, err := database.ListDormRooms(db, auth.TenantID(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch rooms")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    rooms,
	})
}

// AssignStudentAPI places a student in a room, enforcing capacity and the
// one-active-assignment rule.
func AssignStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := models.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, models.ValidationMessage(err))
	}

	assignment, err := database.AssignStudentToRoom(db, auth.TenantID(c), req.RoomID, req.StudentID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRoomFull), errors.Is(err, models.ErrAlreadyAssigned):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case err == sql.ErrNoRows:
			return fiber.NewError(fiber.StatusNotFound, "Room not found")
		default:
			logrus.WithError(err).Error("failed to assign student to room")
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to assign student")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    assignment,
		"message": "Student assigned to room",
	})
}

// ReleaseAssignmentAPI ends a student's room assignment.
func ReleaseAssignmentAPI(c *fiber.Ctx, db *sql.DB) error {
	err := database.ReleaseAssignment(db, auth.TenantID(c), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Assignment not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to release assignment")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Assignment released",
	})
}

// ListOccupantsAPI returns the active occupants of a room.
func ListOccupantsAPI(c *fiber.Ctx, db *sql.DB) error {
	occupants, err := database.ListRoomOccupants(db, auth.TenantID(c), c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch occupants")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    occupants,
	})
}
