package billing

import (
	"strings"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/internal/pkg/env"
)

// PriceIDForPlan resolves a plan name to its Stripe price ID from the
// environment. Empty means the plan is not sellable in this deployment.
func PriceIDForPlan(plan string) string {
	switch plan {
	case "Weekly":
		return env.GetEnv("WEEKLY_PRICE_ID", "")
	case "Starter":
		return env.GetEnv("STARTER_PRICE_ID", "")
	case "Growth":
		return env.GetEnv("GROWTH_PRICE_ID", "")
	case "Basic":
		return env.GetEnv("BASIC_PRICE_ID", "")
	case "Pro":
		return env.GetEnv("PRO_PRICE_ID", "")
	default:
		return ""
	}
}

func normalizeSubscriptionType(subscriptionType string) string {
	switch strings.ToLower(strings.TrimSpace(subscriptionType)) {
	case models.SubscriptionWeekly:
		return models.SubscriptionWeekly
	default:
		return models.SubscriptionMonthly
	}
}
