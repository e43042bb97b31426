package expenses

import (
	"zawadi-schools/app/config"
	"zawadi-schools/app/models"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupExpensesRoutes registers expense tracking endpoints.
func SetupExpensesRoutes(app *fiber.App) {
	api := app.Group("/api/expenses", auth.Middleware)

	api.Get("/", func(c *fiber.Ctx) error { return ListExpensesAPI(c, config.GetDB()) })
	api.Get("/summary", func(c *fiber.Ctx) error { return ExpenseSummaryAPI(c, config.GetDB()) })

	staff := api.Group("/", auth.RequireRole(models.RoleAdmin, models.RoleStaff))
	staff.Post("/", func(c *fiber.Ctx) error { return CreateExpenseAPI(c, config.GetDB()) })
	staff.Put("/:id", func(c *fiber.Ctx) error { return UpdateExpenseAPI(c, config.GetDB()) })
	staff.Delete("/:id", func(c *fiber.Ctx) error { return DeleteExpenseAPI(c, config.GetDB()) })
}
