package entitlements

import (
	"testing"

	"github.com/scrivehq/scrive/app/models"
)

func TestEvaluateNoPlanAlwaysDenies(t *testing.T) {
	for _, plan := range []string{"", "none"} {
		for _, used := range []int{0, 5, 1000} {
			account := &models.Account{Plan: plan, CreditsUsed: used, MonthlyLimit: models.LimitUnlimited}
			d := Evaluate(RevisionCurrent, account)
			if d.Allowed {
				t.Fatalf("plan %q with %d credits used: expected deny", plan, used)
			}
			if d.Reason != "You do not have a subscription plan" {
				t.Fatalf("unexpected reason %q", d.Reason)
			}
			if d.Downgrade {
				t.Fatalf("plan %q: no-plan deny must not request a downgrade", plan)
			}
		}
	}
}

func TestEvaluatePaidPlanBelowCapAllows(t *testing.T) {
	account := &models.Account{Plan: "Growth", CreditsUsed: 99, MonthlyLimit: 100}
	if d := Evaluate(RevisionCurrent, account); !d.Allowed {
		t.Fatalf("expected allow, got deny: %q", d.Reason)
	}
}

func TestEvaluateUnlimitedAlwaysAllows(t *testing.T) {
	account := &models.Account{Plan: "Pro", CreditsUsed: 1 << 20, MonthlyLimit: models.LimitUnlimited}
	if d := Evaluate(RevisionLegacy, account); !d.Allowed {
		t.Fatalf("expected allow for unlimited cap, got deny: %q", d.Reason)
	}
}

func TestEvaluateZeroCapDeniesImmediately(t *testing.T) {
	account := &models.Account{Plan: "Growth", CreditsUsed: 0, MonthlyLimit: 0}
	if d := Evaluate(RevisionCurrent, account); d.Allowed {
		t.Fatalf("expected cap of zero to deny")
	}
}

func TestEvaluateLegacyExhaustionDowngrades(t *testing.T) {
	account := &models.Account{Plan: "free", CreditsUsed: 5, MonthlyLimit: 5}
	d := Evaluate(RevisionLegacy, account)
	if d.Allowed {
		t.Fatalf("expected deny for exhausted free plan")
	}
	if !d.Downgrade {
		t.Fatalf("legacy revision must request a downgrade on exhaustion")
	}
	if d.Reason != "Free plan limit reached. Please upgrade your plan." {
		t.Fatalf("unexpected reason %q", d.Reason)
	}
}

func TestEvaluateLegacyBasicExhaustionMessage(t *testing.T) {
	account := &models.Account{Plan: "Basic", CreditsUsed: 50, MonthlyLimit: 50}
	d := Evaluate(RevisionLegacy, account)
	if d.Allowed || !d.Downgrade {
		t.Fatalf("expected deny+downgrade, got %+v", d)
	}
	if d.Reason != "Basic plan limit reached. Please upgrade to Pro." {
		t.Fatalf("unexpected reason %q", d.Reason)
	}
}

func TestEvaluateCurrentExhaustionKeepsPlan(t *testing.T) {
	account := &models.Account{Plan: "Growth", CreditsUsed: 100, MonthlyLimit: 100}
	d := Evaluate(RevisionCurrent, account)
	if d.Allowed {
		t.Fatalf("expected deny at cap")
	}
	if d.Downgrade {
		t.Fatalf("current revision must not downgrade on exhaustion")
	}
	if d.Reason != "Growth plan limit of 100 thumbnails has been reached. Please upgrade your plan." {
		t.Fatalf("unexpected reason %q", d.Reason)
	}
}

func TestEvaluateCurrentUnrecognizedPlanDenies(t *testing.T) {
	account := &models.Account{Plan: "Basic", CreditsUsed: 0, MonthlyLimit: 50}
	d := Evaluate(RevisionCurrent, account)
	if d.Allowed {
		t.Fatalf("expected deny for plan outside the current revision")
	}
	if d.Reason != "You need a subscription plan to generate thumbnails" {
		t.Fatalf("unexpected reason %q", d.Reason)
	}
}

func TestRevisionCaps(t *testing.T) {
	tests := []struct {
		rev  Revision
		plan string
		want int
	}{
		{RevisionCurrent, "Weekly", 20},
		{RevisionCurrent, "Starter", 50},
		{RevisionCurrent, "Growth", 100},
		{RevisionLegacy, "free", 5},
		{RevisionLegacy, "Basic", 50},
		{RevisionLegacy, "Pro", models.LimitUnlimited},
	}
	for _, tt := range tests {
		got, ok := tt.rev.Cap(tt.plan)
		if !ok {
			t.Fatalf("revision %s: plan %q not recognized", tt.rev.Name, tt.plan)
		}
		if got != tt.want {
			t.Fatalf("revision %s: Cap(%q) = %d, want %d", tt.rev.Name, tt.plan, got, tt.want)
		}
	}
	if _, ok := RevisionCurrent.Cap("Pro"); ok {
		t.Fatalf("revisions must not mix tiers")
	}
}
