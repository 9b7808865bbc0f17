package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/app/repository"
	"github.com/scrivehq/scrive/internal/pkg/entitlements"
	"github.com/scrivehq/scrive/internal/pkg/mail"
)

var validate = validator.New()

type registerRequest struct {
	Email       string `json:"email" validate:"required,email,min=5,max=200"`
	DisplayName string `json:"display_name" validate:"max=150"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister creates a new account. New accounts start without a plan;
// entitlement only appears once a payment webhook activates one.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "Please check your email and password",
		})
	}

	accounts := repository.GetGlobalFactory().GetAccountRepository()
	if _, err := accounts.GetByEmail(req.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "email_taken",
			"message": "An account with this email already exists",
		})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[Auth] Account lookup failed for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Something went wrong. Please try again.",
		})
	}

	account, err := models.CreateAccount(req.Email, req.DisplayName, req.Password)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "Please check your email and password",
		})
	}
	account.Plan, account.MonthlyLimit = entitlements.LoadRevision().DefaultTier()
	if err := accounts.Create(account); err != nil {
		log.Printf("[Auth] Account creation failed for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Account could not be created",
		})
	}

	if err := createLoginSession(c, account); err != nil {
		log.Printf("[Auth] Session creation failed for %s: %v", req.Email, err)
	}

	go mail.SendWelcomeMail(account.Email, account.DisplayName)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"email":        account.Email,
		"display_name": account.DisplayName,
		"plan":         account.Plan,
	})
}

// HandleLogin verifies credentials and opens a session.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_request",
			"message": "Invalid request body",
		})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "Email and password are required",
		})
	}

	accounts := repository.GetGlobalFactory().GetAccountRepository()
	account, err := accounts.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "invalid_credentials",
				"message": "Invalid email or password",
			})
		}
		log.Printf("[Auth] Account lookup failed for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Something went wrong. Please try again.",
		})
	}

	if !account.CheckPassword(req.Password) {
		log.Printf("[Auth] Failed login for %s from %s", req.Email, GetClientIP(c))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "invalid_credentials",
			"message": "Invalid email or password",
		})
	}

	if err := createLoginSession(c, account); err != nil {
		log.Printf("[Auth] Session creation failed for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "Login failed. Please try again.",
		})
	}

	now := time.Now()
	account.LastLoginAt = &now
	if err := accounts.Update(account); err != nil {
		log.Printf("[Auth] Failed to store last login for %s: %v", req.Email, err)
	}

	return c.JSON(fiber.Map{
		"email":        account.Email,
		"display_name": account.DisplayName,
		"plan":         account.Plan,
	})
}

// HandleLogout destroys the session.
func HandleLogout(c *fiber.Ctx) error {
	if err := destroyLoginSession(c); err != nil {
		log.Printf("[Auth] Logout failed: %v", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
