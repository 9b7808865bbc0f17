package controllers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/internal/pkg/billing"
	"github.com/scrivehq/scrive/internal/pkg/database"
	"github.com/scrivehq/scrive/internal/pkg/entitlements"
	"github.com/scrivehq/scrive/internal/pkg/env"
	"github.com/scrivehq/scrive/internal/pkg/usercontext"
)

type checkoutRequest struct {
	Plan             string `json:"plan" validate:"required"`
	SubscriptionType string `json:"subscription_type" validate:"omitempty,oneof=weekly monthly"`
}

// HandleCreateCheckout starts a Stripe Checkout Session for the logged-in
// account. The plan only becomes active once the payment webhook confirms.
func HandleCreateCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "A plan is required",
		})
	}
	if _, ok := entitlements.LoadRevision().Cap(req.Plan); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "plan_not_found",
			"message": "Unknown plan",
		})
	}

	url, err := billing.CreateCheckoutSession(userCtx.Email, req.Plan, req.SubscriptionType)
	if err != nil {
		if errors.Is(err, billing.ErrPlanNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "plan_not_found",
				"message": "Unknown plan",
			})
		}
		log.Printf("[Billing] Checkout session failed for %s: %v", userCtx.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Checkout could not be started",
		})
	}

	return c.JSON(fiber.Map{"url": url})
}

// HandleStripeWebhook receives payment events. Every delivery is persisted
// idempotently before processing; only verified checkout.session.completed
// events activate a plan.
func HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get("Stripe-Signature")
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")

	svc := billing.NewServiceFromDB(database.GetDB(), entitlements.LoadRevision())
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	event, verifyErr := billing.VerifyWebhook(rawBody, signature, secret)
	signatureValid := verifyErr == nil

	eventID := ""
	eventType := ""
	if signatureValid {
		eventID = event.ID
		eventType = string(event.Type)
	}
	created, stored, err := svc.RecordWebhookEvent(ctx, billing.WebhookEventInput{
		Provider:        models.BillingProviderStripe,
		ProviderEventID: eventID,
		EventType:       eventType,
		PayloadJSON:     string(rawBody),
		SignatureValid:  signatureValid,
	})
	if err != nil {
		log.Printf("[Billing] Webhook persist failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	if !created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}
	if !signatureValid {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, errors.New("invalid webhook signature"))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_signature"})
	}
	if string(event.Type) != billing.EventTypeCheckoutCompleted {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, nil)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	}

	activation, err := billing.ParseActivation(event)
	if err != nil {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	activateErr := svc.ActivatePlan(ctx, activation)
	_ = svc.MarkWebhookProcessed(ctx, stored.ID, activateErr)
	switch {
	case activateErr == nil:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	case errors.Is(activateErr, billing.ErrPlanNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "plan_not_found"})
	case errors.Is(activateErr, billing.ErrAccountNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "account_not_found"})
	default:
		log.Printf("[Billing] Plan activation failed: %v", activateErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "activation_failed"})
	}
}
