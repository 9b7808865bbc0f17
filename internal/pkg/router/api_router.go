package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/scrivehq/scrive/app/controllers"
	"github.com/scrivehq/scrive/internal/pkg/entitlements"
	"github.com/scrivehq/scrive/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "scrive api",
		})
	})

	v1 := api.Group("/v1")
	v1.Get("/ping", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"ping": "pong"})
	})

	v1.Post("/auth/register", controllers.HandleRegister)
	v1.Post("/auth/login", controllers.HandleLogin)
	v1.Post("/auth/logout", controllers.HandleLogout)

	v1.Get("/stats", controllers.HandleStats)

	v1.Get("/icons", controllers.HandleIconList)
	v1.Get("/icons/:category/:name", controllers.HandleIconFile)

	protected := v1.Group("", middleware.RequireAPISessionAuth)
	protected.Get("/account/info", controllers.HandleAccountInfo)
	protected.Get("/account/generations", controllers.HandleGenerationHistory)
	protected.Post("/billing/checkout", controllers.HandleCreateCheckout)

	rev := entitlements.LoadRevision()
	protected.Post("/generate", middleware.RequireEntitlement(rev), controllers.HandleGenerate)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
