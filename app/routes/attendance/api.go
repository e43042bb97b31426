package attendance

import (
	"database/sql"
	"time"

	"zawadi-schools/app/database"
	"zawadi-schools/app/models"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// MarkAttendanceRequest is the bulk form a teacher submits for one day.
type MarkAttendanceRequest struct {
	Date  string                    `json:"date" validate:"required"`
	Marks []database.AttendanceMark `json:"marks" validate:"required,min=1,dive"`
}

// MarkAttendanceAPI upserts attendance for a set of students on a date.
func MarkAttendanceAPI(c *fiber.Ctx, db *sql.DB) error {
	var req MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := models.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, models.ValidationMessage(err))
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Date must be YYYY-MM-DD")
	}
	for _, m := range req.Marks {
		if !models.ValidAttendanceStatus(m.Status) {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown attendance status: "+string(m.Status))
		}
	}

	claims := auth.Claims(c)
	count, err := database.MarkAttendance(db, claims.TenantID, date, claims.UserID, req.Marks)
	if err != nil {
		logrus.WithError(err).Error("failed to mark attendance")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to mark attendance")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"marked":  count,
		"message": "Attendance recorded",
	})
}

// DailyAttendanceAPI lists all marks for one date.
func DailyAttendanceAPI(c *fiber.Ctx, db *sql.DB) error {
	date, err := parseDateQuery(c)
	if err != nil {
		return err
	}

	records, err := database.GetDailyAttendance(db, auth.TenantID(c), date)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch attendance")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
	})
}

// AttendanceSummaryAPI returns one day's per-status counts.
func AttendanceSummaryAPI(c *fiber.Ctx, db *sql.DB) error {
	date, err := parseDateQuery(c)
	if err != nil {
		return err
	}

	summary, err := database.GetAttendanceSummary(db, auth.TenantID(c), date)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch attendance summary")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}

// StudentAttendanceAPI returns a student's attendance history for a range
// (defaults to the last 30 days).
func StudentAttendanceAPI(c *fiber.Ctx, db *sql.DB) error {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		to = parsed
	}

	records, err := database.GetStudentAttendance(db, auth.TenantID(c), c.Params("id"), from, to)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch attendance")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
	})
}

func parseDateQuery(c *fiber.Ctx) (time.Time, error) {
	v := c.Query("date")
	if v == "" {
		return time.Now().Truncate(24 * time.Hour), nil
	}
	date, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	return date, nil
}
