package controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/app/repository"
	"github.com/scrivehq/scrive/internal/pkg/usercontext"
)

const generationsPerPage = 20

// HandleAccountInfo returns the caller's plan and usage state. Unlimited
// caps are serialized as the string "unlimited" instead of the sentinel.
func HandleAccountInfo(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	account, err := repository.GetGlobalFactory().GetAccountRepository().GetByEmail(userCtx.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "account not found",
			})
		}
		log.Printf("[Account] Lookup failed for %s: %v", userCtx.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Something went wrong. Please try again.",
		})
	}

	var monthlyLimit interface{} = account.MonthlyLimit
	var creditsRemaining interface{} = account.CreditsRemaining()
	if account.HasUnlimitedCredits() {
		monthlyLimit = "unlimited"
		creditsRemaining = "unlimited"
	}

	return c.JSON(fiber.Map{
		"email":             account.Email,
		"display_name":      account.DisplayName,
		"avatar_url":        account.AvatarURL,
		"plan":              account.Plan,
		"credits_used":      account.CreditsUsed,
		"monthly_limit":     monthlyLimit,
		"credits_remaining": creditsRemaining,
		"subscription_type": account.SubscriptionType,
	})
}

// HandleGenerationHistory lists the caller's generations, newest first.
func HandleGenerationHistory(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	account, err := repository.GetGlobalFactory().GetAccountRepository().GetByEmail(userCtx.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "account not found",
			})
		}
		log.Printf("[Account] Lookup failed for %s: %v", userCtx.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Something went wrong. Please try again.",
		})
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	generations := repository.GetGlobalFactory().GetGenerationRepository()
	items, err := generations.GetByAccountID(account.ID, (page-1)*generationsPerPage, generationsPerPage)
	if err != nil {
		log.Printf("[Account] History lookup failed for %s: %v", userCtx.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Generation history could not be loaded",
		})
	}
	total, err := generations.CountByAccountID(account.ID)
	if err != nil {
		log.Printf("[Account] History count failed for %s: %v", userCtx.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Generation history could not be loaded",
		})
	}

	if items == nil {
		items = []models.Generation{}
	}
	return c.JSON(fiber.Map{
		"generations": items,
		"page":        page,
		"per_page":    generationsPerPage,
		"total":       total,
	})
}
