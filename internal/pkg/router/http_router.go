package router

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/scrivehq/scrive/app/controllers"
	"github.com/scrivehq/scrive/app/repository"
	"github.com/scrivehq/scrive/internal/pkg/aigen"
	"github.com/scrivehq/scrive/internal/pkg/billing"
	"github.com/scrivehq/scrive/internal/pkg/credits"
	"github.com/scrivehq/scrive/internal/pkg/middleware"
	"github.com/scrivehq/scrive/internal/pkg/oauth"
	"github.com/scrivehq/scrive/internal/pkg/s3archive"
	"github.com/scrivehq/scrive/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	if err := billing.InitStripe(); err != nil {
		log.Printf("[Router] Stripe is not configured: %v", err)
	}

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.installGenerationService()

	// OAuth flow lives outside /api because goth manages its own session.
	app.Get("/auth/:provider", controllers.HandleOAuthLogin)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)

	// Payment webhooks authenticate via signature, not session, and must
	// not sit behind the API rate limiter.
	app.Post("/webhooks/stripe", controllers.HandleStripeWebhook)
}

func (h HttpRouter) installGenerationService() {
	factory := repository.GetGlobalFactory()

	archive, err := s3archive.NewFromEnv(context.Background())
	if err != nil {
		log.Printf("[Router] Archive storage unavailable: %v", err)
	}

	controllers.InitGenerationService(aigen.NewService(
		aigen.NewPromptClientFromEnv(),
		aigen.NewImageClientFromEnv(),
		credits.NewRecorder(factory.GetAccountRepository()),
		factory.GetGenerationRepository(),
		archive,
	))
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
