package students

import (
	"zawadi-schools/app/config"
	"zawadi-schools/app/models"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupStudentsRoutes registers student management endpoints.
func SetupStudentsRoutes(app *fiber.App) {
	api := app.Group("/api/students", auth.Middleware)

	api.Get("/", func(c *fiber.Ctx) error { return ListStudentsAPI(c, config.GetDB()) })
	api.Get("/:id", func(c *fiber.Ctx) error { return GetStudentAPI(c, config.GetDB()) })
	api.Get("/:id/finance", func(c *fiber.Ctx) error { return StudentFinanceAPI(c, config.GetDB()) })

	admin := api.Group("/", auth.RequireRole(models.RoleAdmin, models.RoleStaff))
	admin.Post("/", func(c *fiber.Ctx) error { return CreateStudentAPI(c, config.GetDB()) })
	admin.Put("/:id", func(c *fiber.Ctx) error { return UpdateStudentAPI(c, config.GetDB()) })
	admin.Delete("/:id", func(c *fiber.Ctx) error { return DeleteStudentAPI(c, config.GetDB()) })
}
