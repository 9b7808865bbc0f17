package controllers

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"
	"gorm.io/gorm"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/app/repository"
	"github.com/scrivehq/scrive/internal/pkg/entitlements"
	"github.com/scrivehq/scrive/internal/pkg/env"
)

// HandleOAuthLogin starts the Google OAuth flow.
func HandleOAuthLogin(c *fiber.Ctx) error {
	return gothfiber.BeginAuthHandler(c)
}

// HandleOAuthCallback completes the provider flow, finds or creates the
// matching account and logs it in. OAuth accounts also start without a plan.
func HandleOAuthCallback(c *fiber.Ctx) error {
	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "oauth_failed",
			"message": "Google sign-in could not be completed",
		})
	}

	accounts := repository.GetGlobalFactory().GetAccountRepository()

	account, err := accounts.GetByGoogleID(u.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) && u.Email != "" {
		account, err = accounts.GetByEmail(strings.ToLower(u.Email))
	}
	switch {
	case err == nil:
		if account.GoogleID == "" {
			account.GoogleID = u.UserID
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Password placeholder keeps validation happy; OAuth accounts never
		// log in with it.
		placeholder := fmt.Sprintf("oauth_%d", time.Now().UnixNano())
		account, err = models.CreateAccount(strings.ToLower(u.Email), firstNonEmpty(u.Name, u.NickName, u.Email), placeholder)
		if err != nil {
			log.Printf("[OAuth] Account build failed for %s: %v", u.Email, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal_error",
				"message": "Account could not be created",
			})
		}
		account.GoogleID = u.UserID
		account.AvatarURL = u.AvatarURL
		account.Plan, account.MonthlyLimit = entitlements.LoadRevision().DefaultTier()
		if err := accounts.Create(account); err != nil {
			log.Printf("[OAuth] Account creation failed for %s: %v", u.Email, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal_error",
				"message": "Account could not be created",
			})
		}
	default:
		log.Printf("[OAuth] Account lookup failed for %s: %v", u.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Something went wrong. Please try again.",
		})
	}

	now := time.Now()
	account.LastLoginAt = &now
	if err := accounts.Update(account); err != nil {
		log.Printf("[OAuth] Failed to update account %s: %v", account.Email, err)
	}

	if err := createLoginSession(c, account); err != nil {
		log.Printf("[OAuth] Session creation failed for %s: %v", account.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Login failed. Please try again.",
		})
	}

	return c.Redirect(env.GetEnv("FRONTEND_URL", "/"), fiber.StatusSeeOther)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
