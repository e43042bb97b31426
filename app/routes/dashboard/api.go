package dashboard

import (
	"time"

	"zawadi-schools/app/config"
	"zawadi-schools/app/database"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupDashboardRoutes registers the dashboard page and stats endpoint.
func SetupDashboardRoutes(app *fiber.App) {
	app.Get("/dashboard", auth.Middleware, ShowDashboard)
	app.Get("/api/dashboard/stats", auth.Middleware, StatsAPI)
}

// ShowDashboard renders the overview page for the logged-in user.
func ShowDashboard(c *fiber.Ctx) error {
	claims := auth.Claims(c)
	stats := database.GetDashboardStats(config.GetDB(), claims.TenantID, claims.UserID, time.Now())

	return c.Render("dashboard/index", fiber.Map{
		"Title":       "Dashboard - Zawadi Schools",
		"CurrentPage": "dashboard",
		"FirstName":   claims.FirstName,
		"LastName":    claims.LastName,
		"Stats":       stats,
	})
}

// StatsAPI returns the tenant-wide counters as JSON.
func StatsAPI(c *fiber.Ctx) error {
	claims := auth.Claims(c)
	stats := database.GetDashboardStats(config.GetDB(), claims.TenantID, claims.UserID, time.Now())

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
