package main

import (
	"strings"

	"zawadi-schools/app/config"
	"zawadi-schools/app/database"
	"zawadi-schools/app/routes/attendance"
	"zawadi-schools/app/routes/auth"
	"zawadi-schools/app/routes/dashboard"
	"zawadi-schools/app/routes/dormitory"
	"zawadi-schools/app/routes/exams"
	"zawadi-schools/app/routes/expenses"
	"zawadi-schools/app/routes/messages"
	"zawadi-schools/app/routes/payments"
	"zawadi-schools/app/routes/students"
	"zawadi-schools/app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/sirupsen/logrus"
)

// errorHandler normalizes every error to the API envelope, or an error page
// for web requests.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if strings.HasPrefix(c.Path(), "/api") {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	return c.Status(code).Render("error", fiber.Map{
		"Title":        "Error - Zawadi Schools",
		"ErrorCode":    code,
		"ErrorMessage": err.Error(),
	})
}

func main() {
	config.InitLogger()
	cfg := config.Load()

	db := config.InitDB(cfg)
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	scheduler := services.StartScheduler(db)
	defer scheduler.Stop()

	engine := html.New("./app/templates", ".html")

	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/auth/login")
	})

	auth.SetupAuthRoutes(app)
	dashboard.SetupDashboardRoutes(app)
	students.SetupStudentsRoutes(app)
	payments.SetupPaymentsRoutes(app)
	attendance.SetupAttendanceRoutes(app)
	exams.SetupExamRoutes(app)
	dormitory.SetupDormitoryRoutes(app)
	expenses.SetupExpensesRoutes(app)
	messages.SetupMessagesRoutes(app)

	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	logrus.WithField("addr", cfg.ListenAddr).Info("server starting")
	logrus.Fatal(app.Listen(cfg.ListenAddr))
}
