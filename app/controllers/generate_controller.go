package controllers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/internal/pkg/aigen"
	"github.com/scrivehq/scrive/internal/pkg/credits"
	"github.com/scrivehq/scrive/internal/pkg/middleware"
)

var generationService *aigen.Service

// InitGenerationService wires the generation pipeline into this package.
// Called once during application startup.
func InitGenerationService(svc *aigen.Service) {
	generationService = svc
}

type generateRequest struct {
	Prompt         string         `json:"prompt" validate:"required,min=3,max=2000"`
	Sketch         string         `json:"sketch" validate:"required"`
	TargetPlatform string         `json:"target_platform" validate:"omitempty,oneof=youtube tiktok instagram twitch"`
	Settings       aigen.Settings `json:"settings"`
}

// HandleGenerate runs one generation for the entitled account set up by the
// entitlement middleware.
func HandleGenerate(c *fiber.Ctx) error {
	account, ok := c.Locals(middleware.KeyAccount).(*models.Account)
	if !ok || account == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}

	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.TargetPlatform == "" {
		req.TargetPlatform = "youtube"
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": validationMessage(err, "A prompt and a sketch are required"),
		})
	}

	result, err := generationService.Generate(c.UserContext(), account, aigen.Request{
		Prompt:         req.Prompt,
		Sketch:         req.Sketch,
		TargetPlatform: req.TargetPlatform,
		Settings:       req.Settings,
	})
	if err != nil {
		switch {
		case errors.Is(err, credits.ErrExhausted):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "entitlement_denied",
				"message": "Your monthly thumbnail limit has been reached. Please upgrade your plan.",
			})
		case errors.Is(err, credits.ErrAccountNotFound):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "account not found",
			})
		case errors.Is(err, aigen.ErrGenerationFailed):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":   "generation_failed",
				"message": "Failed to generate thumbnails. Please try again.",
			})
		default:
			log.Printf("[Generate] Pipeline failed for %s: %v", account.Email, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal_error",
				"message": "Something went wrong. Please try again.",
			})
		}
	}

	return c.JSON(fiber.Map{
		"generation_id": result.UUID,
		"prompt":        result.Prompt,
		"images":        result.Variations,
	})
}
