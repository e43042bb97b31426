package exams

import (
	"zawadi-schools/app/config"
	"zawadi-schools/app/models"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupExamRoutes registers exam and result endpoints.
func SetupExamRoutes(app *fiber.App) {
	api := app.Group("/api/exams", auth.Middleware)

	api.Get("/", func(c *fiber.Ctx) error { return ListExamsAPI(c, config.GetDB()) })
	api.Get("/:id", func(c *fiber.Ctx) error { return GetExamAPI(c, config.GetDB()) })
	api.Get("/:id/results", func(c *fiber.Ctx) error { return ListResultsAPI(c, config.GetDB()) })

	staff := api.Group("/", auth.RequireRole(models.RoleAdmin, models.RoleTeacher))
	staff.Post("/", func(c *fiber.Ctx) error { return CreateExamAPI(c, config.GetDB()) })
	staff.Post("/:id/results", func(c *fiber.Ctx) error { return RecordResultAPI(c, config.GetDB()) })
	staff.Delete("/:id", func(c *fiber.Ctx) error { return DeleteExamAPI(c, config.GetDB()) })
}
