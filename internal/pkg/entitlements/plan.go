package entitlements

import (
	"strings"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/internal/pkg/env"
)

// Revision is one product configuration: the recognized tiers with their
// thumbnail caps and the behavior when a finite cap is exhausted. The two
// revisions are mutually exclusive; one is selected at startup.
type Revision struct {
	Name string
	// Tiers maps a plan name to its monthly cap. models.LimitUnlimited
	// marks a tier without a numeric cap.
	Tiers map[string]int
	// DowngradeOnExhaustion strips the plan to "none" as part of the deny
	// decision once the cap is reached (legacy behavior only).
	DowngradeOnExhaustion bool
}

// RevisionLegacy is the original free/Basic/Pro configuration. Exhausted
// tiers are downgraded to "none" as part of the rejection.
var RevisionLegacy = Revision{
	Name: "legacy",
	Tiers: map[string]int{
		"free":  5,
		"Basic": 50,
		"Pro":   models.LimitUnlimited,
	},
	DowngradeOnExhaustion: true,
}

// RevisionCurrent is the Weekly/Starter/Growth configuration. Exhausted
// plans stay in place for the next cycle; the request is just rejected.
var RevisionCurrent = Revision{
	Name: "current",
	Tiers: map[string]int{
		"Weekly":  20,
		"Starter": 50,
		"Growth":  100,
	},
	DowngradeOnExhaustion: false,
}

// LoadRevision selects the active product revision from PLAN_REVISION.
func LoadRevision() Revision {
	switch strings.ToLower(strings.TrimSpace(env.GetEnv("PLAN_REVISION", "current"))) {
	case "legacy":
		return RevisionLegacy
	default:
		return RevisionCurrent
	}
}

// Cap returns the configured cap for a plan and whether the plan is a
// recognized tier of this revision.
func (r Revision) Cap(plan string) (int, bool) {
	cap, ok := r.Tiers[plan]
	return cap, ok
}

// DefaultTier returns the tier a fresh account starts on. Only the legacy
// revision hands out an introductory tier; the current revision starts
// accounts with no plan at all.
func (r Revision) DefaultTier() (string, int) {
	if r.DowngradeOnExhaustion {
		return "free", r.Tiers["free"]
	}
	return models.PlanNone, 0
}
