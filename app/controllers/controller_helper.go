package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/internal/pkg/session"
	"github.com/scrivehq/scrive/internal/pkg/usercontext"
)

// validationMessage names the first offending field from a validator error.
func validationMessage(err error, fallback string) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "required" {
			return fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
		}
		return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
	}
	return fallback
}

// createLoginSession stores the account identity in the session store.
func createLoginSession(c *fiber.Ctx, account *models.Account) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}
	sess.Set(usercontext.KeyUserID, account.ID)
	sess.Set(usercontext.KeyUserEmail, account.Email)
	sess.Set(usercontext.KeyUserName, account.DisplayName)
	return sess.Save()
}

// destroyLoginSession drops the session entirely.
func destroyLoginSession(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// GetClientIP determines the client IP behind Cloudflare or a plain proxy.
func GetClientIP(c *fiber.Ctx) string {
	if cfIP := strings.TrimSpace(c.Get("CF-Connecting-IP")); cfIP != "" {
		return cfIP
	}
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	return c.IP()
}
