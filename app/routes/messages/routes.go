package messages

import (
	"zawadi-schools/app/config"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupMessagesRoutes registers the in-app messaging endpoints.
func SetupMessagesRoutes(app *fiber.App) {
	api := app.Group("/api/messages", auth.Middleware)

	api.Get("/", func(c *fiber.Ctx) error { return InboxAPI(c, config.GetDB()) })
	api.Get("/recipients", func(c *fiber.Ctx) error { return ListRecipientsAPI(c, config.GetDB()) })
	api.Post("/", func(c *fiber.Ctx) error { return SendMessageAPI(c, config.GetDB()) })
	api.Post("/:id/read", func(c *fiber.Ctx) error { return MarkReadAPI(c, config.GetDB()) })
}
