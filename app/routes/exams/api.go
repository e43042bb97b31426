package exams

import (
	"database/sql"
	"time"

	"zawadi-schools/app/database"
	"zawadi-schools/app/models"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// CreateExamRequest is the body for scheduling an exam.
type CreateExamRequest struct {
	Title     string    `json:"title" validate:"required"`
	ClassName string    `json:"class_name" validate:"required"`
	Subject   string    `json:"subject" validate:"required"`
	MaxScore  float64   `json:"max_score" validate:"required,gt=0"`
	ExamDate  time.Time `json:"exam_date" validate:"required"`
}

// ResultRequest is the body for recording one student's score.
type ResultRequest struct {
	StudentID string  `json:"student_id" validate:"required,uuid"`
	Score     float64 `json:"score" validate:"gte=0"`
	Comment   string  `json:"comment"`
}

// CreateExamAPI schedules an exam.
func CreateExamAPI(c *fiber.Ctx, db *sql.DB) error {
	var req CreateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := models.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, models.ValidationMessage(err))
	}

	exam := &models.Exam{
		TenantID:  auth.TenantID(c),
		Title:     req.Title,
		ClassName: req.ClassName,
		Subject:   req.Subject,
		MaxScore:  req.MaxScore,
		ExamDate:  req.ExamDate,
	}
	if err := database.CreateExam(db, exam); err != nil {
		logrus.WithError(err).Error("failed to create exam")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create exam")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    exam,
		"message": "Exam created successfully",
	})
}

// ListExamsAPI returns tenant exams, optionally filtered by class.
func ListExamsAPI(c *fiber.Ctx, db *sql.DB) error {
	exams, err := database.ListExams(db, auth.TenantID(c), c.Query("class_name"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch exams")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    exams,
	})
}

// GetExamAPI returns one exam.
func GetExamAPI(c *fiber.Ctx, db *sql.DB) error {
	exam, err := database.GetExam(db, auth.TenantID(c), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Exam not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch exam")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    exam,
	})
}

// RecordResultAPI records or updates a student's score on an exam.
func RecordResultAPI(c *fiber.Ctx, db *sql.DB) error {
	var req ResultRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := models.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, models.ValidationMessage(err))
	}

	tenantID := auth.TenantID(c)
	exam, err := database.GetExam(db, tenantID, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Exam not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch exam")
	}
	if req.Score > exam.MaxScore {
		return fiber.NewError(fiber.StatusBadRequest, "Score exceeds the exam's maximum")
	}

	result := &models.ExamResult{
		TenantID:  tenantID,
		ExamID:    exam.ID,
		StudentID: req.StudentID,
		Score:     req.Score,
		Comment:   req.Comment,
	}
	if err := database.RecordExamResult(db, tenantID, result); err != nil {
		logrus.WithError(err).Error("failed to record exam result")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to record result")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
		"message": "Result recorded",
	})
}

// ListResultsAPI returns all results for an exam, highest score first.
func ListResultsAPI(c *fiber.Ctx, db *sql.DB) error {
	results, err := database.ListExamResults(db, auth.TenantID(c), c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch results")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    results,
	})
}

// DeleteExamAPI hides an exam and its results.
func DeleteExamAPI(c *fiber.Ctx, db *sql.DB) error {
	err := database.SoftDeleteExam(db, auth.TenantID(c), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Exam not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete exam")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Exam deleted successfully",
	})
}
