package students

import (
	"database/sql"
	"time"

	"zawadi-schools/app/database"
	"zawadi-schools/app/models"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// StudentRequest is the body for creating or updating a student.
type StudentRequest struct {
	StudentCode       string          `json:"student_code" validate:"required"`
	FirstName         string          `json:"first_name" validate:"required"`
	LastName          string          `json:"last_name" validate:"required"`
	Gender            string          `json:"gender"`
	ClassName         string          `json:"class_name"`
	GuardianName      string          `json:"guardian_name"`
	GuardianPhone     string          `json:"guardian_phone"`
	MonthlyTuitionFee decimal.Decimal `json:"monthly_tuition_fee"`
	IsActive          *bool           `json:"is_active"`
}

// CreateStudentAPI enrolls a new student.
func CreateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := models.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, models.ValidationMessage(err))
	}
	if req.MonthlyTuitionFee.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "Monthly tuition fee cannot be negative")
	}

	student := &models.Student{
		TenantID:          auth.TenantID(c),
		StudentCode:       req.StudentCode,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Gender:            models.Gender(req.Gender),
		ClassName:         req.ClassName,
		GuardianName:      req.GuardianName,
		GuardianPhone:     req.GuardianPhone,
		MonthlyTuitionFee: req.MonthlyTuitionFee,
	}
	if err := database.CreateStudent(db, student); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fiber.NewError(fiber.StatusConflict, "Student code already exists")
		}
		logrus.WithError(err).Error("failed to create student")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create student")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    student,
		"message": "Student created successfully",
	})
}

// ListStudentsAPI returns tenant students with filtering and pagination.
func ListStudentsAPI(c *fiber.Ctx, db *sql.DB) error {
	filters := database.StudentFilters{
		Search:    c.Query("search"),
		ClassName: c.Query("class_name"),
		Limit:     c.QueryInt("limit", 50),
		Offset:    c.QueryInt("offset", 0),
	}
	if status := c.Query("status"); status == "active" || status == "inactive" {
		active := status == "active"
		filters.Active = &active
	}

	students, err := database.ListStudents(db, auth.TenantID(c), filters)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch students")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    students,
	})
}

// GetStudentAPI returns one student.
func GetStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	student, err := database.GetStudent(db, auth.TenantID(c), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    student,
	})
}

// StudentFinanceAPI returns a student's aggregate billing position.
func StudentFinanceAPI(c *fiber.Ctx, db *sql.DB) error {
	tenantID := auth.TenantID(c)
	studentID := c.Params("id")

	if _, err := database.GetStudent(db, tenantID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	summary, err := database.GetStudentFinanceSummary(db, tenantID, studentID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch finance summary")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}

// UpdateStudentAPI edits a student's profile.
func UpdateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	tenantID := auth.TenantID(c)
	student, err := database.GetStudent(db, tenantID, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	oldFee := student.MonthlyTuitionFee
	if req.FirstName != "" {
		student.FirstName = req.FirstName
	}
	if req.LastName != "" {
		student.LastName = req.LastName
	}
	if req.Gender != "" {
		student.Gender = models.Gender(req.Gender)
	}
	if req.ClassName != "" {
		student.ClassName = req.ClassName
	}
	if req.GuardianName != "" {
		student.GuardianName = req.GuardianName
	}
	if req.GuardianPhone != "" {
		student.GuardianPhone = req.GuardianPhone
	}
	if !req.MonthlyTuitionFee.IsZero() {
		if req.MonthlyTuitionFee.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Monthly tuition fee cannot be negative")
		}
		student.MonthlyTuitionFee = req.MonthlyTuitionFee
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}

	if err := database.UpdateStudent(db, student); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update student")
	}

	// A lowered fee can leave the current month's tuition already settled.
	if !student.MonthlyTuitionFee.Equal(oldFee) && student.MonthlyTuitionFee.IsPositive() {
		now := time.Now()
		if _, err := database.ReconcileMonthlyTuition(db, tenantID, student.ID, int(now.Month()), now.Year(), student.MonthlyTuitionFee); err != nil {
			logrus.WithError(err).WithField("student_id", student.ID).Warn("tuition reconciliation after fee change failed")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    student,
		"message": "Student updated successfully",
	})
}

// DeleteStudentAPI deactivates and hides a student.
func DeleteStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	err := database.SoftDeleteStudent(db, auth.TenantID(c), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete student")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Student deleted successfully",
	})
}
