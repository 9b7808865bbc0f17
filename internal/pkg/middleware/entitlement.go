package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/scrivehq/scrive/app/repository"
	"github.com/scrivehq/scrive/internal/pkg/entitlements"
	"github.com/scrivehq/scrive/internal/pkg/usercontext"
)

// KeyAccount is the Locals key under which the entitlement guard stores the
// freshly loaded account for downstream handlers.
const KeyAccount = "ACCOUNT"

// RequireEntitlement guards generation endpoints. It loads the account,
// evaluates the active product revision against its plan and usage, applies
// a pending downgrade and rejects with 403 when the account may not
// generate. The definitive gate is the conditional credit consume in the
// generation pipeline; this guard exists so exhausted accounts get their
// plan-specific message instead of a generic one.
func RequireEntitlement(rev entitlements.Revision) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userCtx := usercontext.GetUserContext(c)
		if !userCtx.IsLoggedIn {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "login required",
			})
		}

		accounts := repository.GetGlobalFactory().GetAccountRepository()
		account, err := accounts.GetByEmail(userCtx.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error":   "unauthorized",
					"message": "account not found",
				})
			}
			log.Printf("[Entitlement] Failed to load account %s: %v", userCtx.Email, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal_error",
				"message": "Something went wrong. Please try again.",
			})
		}

		decision := entitlements.Evaluate(rev, account)
		if decision.Downgrade {
			if err := accounts.DowngradeToNone(account.Email); err != nil {
				log.Printf("[Entitlement] Failed to downgrade account %s: %v", account.Email, err)
			}
		}
		if !decision.Allowed {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "entitlement_denied",
				"message": decision.Reason,
			})
		}

		c.Locals(KeyAccount, account)
		return c.Next()
	}
}
