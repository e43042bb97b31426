package dormitory

import (
	"zawadi-schools/app/config"
	"zawadi-schools/app/models"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupDormitoryRoutes registers dormitory management endpoints.
func SetupDormitoryRoutes(app *fiber.App) {
	api := app.Group("/api/dormitory", auth.Middleware)

	api.Get("/rooms", func(c *fiber.Ctx) error { return ListRoomsAPI(c, config.GetDB()) })
	api.Get("/rooms/:id/occupants", func(c *fiber.Ctx) error { return ListOccupantsAPI(c, config.GetDB()) })

	staff := api.Group("/", auth.RequireRole(models.RoleAdmin, models.RoleStaff))
	staff.Post("/rooms", func(c *fiber.Ctx) error { return CreateRoomAPI(c, config.GetDB()) })
	staff.Post("/assignments", func(c *fiber.Ctx) error { return AssignStudentAPI(c, config.GetDB()) })
	staff.Delete("/assignments/:id", func(c *fiber.Ctx) error { return ReleaseAssignmentAPI(c, config.GetDB()) })
}
