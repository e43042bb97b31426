package attendance

import (
	"zawadi-schools/app/config"
	"zawadi-schools/app/models"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAttendanceRoutes registers attendance endpoints. Marking is limited to
// teachers and admins.
func SetupAttendanceRoutes(app *fiber.App) {
	api := app.Group("/api/attendance", auth.Middleware)

	api.Get("/daily", func(c *fiber.Ctx) error { return DailyAttendanceAPI(c, config.GetDB()) })
	api.Get("/summary", func(c *fiber.Ctx) error { return AttendanceSummaryAPI(c, config.GetDB()) })
	api.Get("/students/:id", func(c *fiber.Ctx) error { return StudentAttendanceAPI(c, config.GetDB()) })

	api.Post("/mark", auth.RequireRole(models.RoleAdmin, models.RoleTeacher),
		func(c *fiber.Ctx) error { return MarkAttendanceAPI(c, config.GetDB()) })
}
