package entitlements

import (
	"fmt"
	"strings"

	"github.com/scrivehq/scrive/app/models"
)

// Decision is the outcome of an entitlement check. A deny carries the
// user-facing reason; Downgrade asks the caller to strip the plan as part
// of the same rejection (legacy revision only).
type Decision struct {
	Allowed   bool
	Reason    string
	Downgrade bool
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Evaluate decides whether the account may run a generation right now.
// The cap comes from the account snapshot; the revision supplies the set
// of recognized tiers and the exhaustion behavior. Evaluate never touches
// storage: applying the Downgrade flag is the caller's job.
func Evaluate(rev Revision, account *models.Account) Decision {
	plan := strings.TrimSpace(account.Plan)
	if plan == "" || plan == models.PlanNone {
		return deny("You do not have a subscription plan")
	}

	exhausted := usageExhausted(account)

	if rev.DowngradeOnExhaustion {
		if exhausted {
			return Decision{Reason: exhaustionReasonLegacy(plan), Downgrade: true}
		}
		return allow()
	}

	if _, ok := rev.Cap(plan); !ok {
		return deny("You need a subscription plan to generate thumbnails")
	}
	if exhausted {
		return deny(fmt.Sprintf("%s plan limit of %d thumbnails has been reached. Please upgrade your plan.", plan, account.MonthlyLimit))
	}
	return allow()
}

// usageExhausted reports whether the usage counter reached the cap.
// Unlimited caps never exhaust; a cap of zero is exhausted immediately.
func usageExhausted(account *models.Account) bool {
	if account.MonthlyLimit == models.LimitUnlimited {
		return false
	}
	return account.CreditsUsed >= account.MonthlyLimit
}

func exhaustionReasonLegacy(plan string) string {
	switch plan {
	case "Basic":
		return "Basic plan limit reached. Please upgrade to Pro."
	default:
		return titleCase(plan) + " plan limit reached. Please upgrade your plan."
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
