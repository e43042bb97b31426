package payments

import (
	"zawadi-schools/app/config"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentsRoutes registers the payment endpoints. Reads are open to any
// authenticated staff; every mutation is admin-only.
func SetupPaymentsRoutes(app *fiber.App) {
	api := app.Group("/api/payments", auth.Middleware)

	api.Get("/", func(c *fiber.Ctx) error { return ListPaymentsAPI(c, config.GetDB()) })
	api.Get("/stats", func(c *fiber.Ctx) error { return PaymentStatsAPI(c, config.GetDB()) })
	api.Get("/:id", func(c *fiber.Ctx) error { return GetPaymentAPI(c, config.GetDB()) })
	api.Get("/:id/ledger", func(c *fiber.Ctx) error { return GetLedgerAPI(c, config.GetDB()) })

	admin := api.Group("/", auth.RequireAdmin)
	admin.Post("/", func(c *fiber.Ctx) error { return CreatePaymentAPI(c, config.GetDB()) })
	admin.Post("/bulk-status", func(c *fiber.Ctx) error { return BulkStatusAPI(c, config.GetDB()) })
	admin.Post("/:id/installments", func(c *fiber.Ctx) error { return AddInstallmentAPI(c, config.GetDB()) })
	admin.Put("/:id", func(c *fiber.Ctx) error { return UpdatePaymentAPI(c, config.GetDB()) })
	admin.Post("/:id/status", func(c *fiber.Ctx) error { return OverrideStatusAPI(c, config.GetDB()) })
	admin.Delete("/:id", func(c *fiber.Ctx) error { return DeletePaymentAPI(c, config.GetDB()) })
}
