package credits

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/internal/pkg/entitlements"
)

// These tests walk the full request-time flow the way the entitlement
// middleware and the generation pipeline do: evaluate, apply a pending
// downgrade, then consume a credit on allow.

func runGenerationAttempt(t *testing.T, rev entitlements.Revision, accounts *fakeAccounts, email string) entitlements.Decision {
	t.Helper()

	account, err := accounts.GetByEmail(email)
	require.NoError(t, err)

	decision := entitlements.Evaluate(rev, account)
	if decision.Downgrade {
		require.NoError(t, accounts.DowngradeToNone(email))
	}
	if decision.Allowed {
		require.NoError(t, NewRecorder(accounts).Consume(context.Background(), email))
	}
	return decision
}

func TestExhaustedLegacyFreeTierIsDeniedAndDowngraded(t *testing.T) {
	account := &models.Account{Email: "u@example.com", Plan: "free", CreditsUsed: 5, MonthlyLimit: 5}
	accounts := newFakeAccounts(account)

	decision := runGenerationAttempt(t, entitlements.RevisionLegacy, accounts, "u@example.com")

	assert.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "Free plan limit reached")
	assert.Equal(t, models.PlanNone, account.Plan)
	assert.Equal(t, 5, account.CreditsUsed)
}

func TestGrowthAccountConsumesLastCredit(t *testing.T) {
	account := &models.Account{Email: "u@example.com", Plan: "Growth", CreditsUsed: 99, MonthlyLimit: 100}
	accounts := newFakeAccounts(account)

	decision := runGenerationAttempt(t, entitlements.RevisionCurrent, accounts, "u@example.com")

	assert.True(t, decision.Allowed)
	assert.Equal(t, 100, account.CreditsUsed)
}

func TestExhaustedGrowthAccountIsDeniedWithoutDowngrade(t *testing.T) {
	account := &models.Account{Email: "u@example.com", Plan: "Growth", CreditsUsed: 100, MonthlyLimit: 100}
	accounts := newFakeAccounts(account)

	decision := runGenerationAttempt(t, entitlements.RevisionCurrent, accounts, "u@example.com")

	assert.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "Growth plan limit of 100 thumbnails has been reached")
	assert.Equal(t, "Growth", account.Plan)
	assert.Equal(t, 100, account.CreditsUsed)
}
