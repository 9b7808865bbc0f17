package credits

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/app/repository"
)

// fakeAccounts is an in-memory stand-in for the GORM account repository.
type fakeAccounts struct {
	repository.AccountRepository
	accounts map[string]*models.Account
}

func newFakeAccounts(accounts ...*models.Account) *fakeAccounts {
	f := &fakeAccounts{accounts: make(map[string]*models.Account)}
	for _, a := range accounts {
		f.accounts[a.Email] = a
	}
	return f
}

func (f *fakeAccounts) GetByEmail(email string) (*models.Account, error) {
	a, ok := f.accounts[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeAccounts) IncrementUsage(email string, delta int) error {
	a, ok := f.accounts[email]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.CreditsUsed += delta
	return nil
}

func (f *fakeAccounts) ConsumeCredit(email string) error {
	a, ok := f.accounts[email]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if a.MonthlyLimit >= 0 && a.CreditsUsed >= a.MonthlyLimit {
		return repository.ErrCreditsExhausted
	}
	a.CreditsUsed++
	return nil
}

func (f *fakeAccounts) SetPlan(email, plan string, monthlyLimit int, subscriptionType string) error {
	a, ok := f.accounts[email]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Plan = plan
	a.CreditsUsed = 0
	a.MonthlyLimit = monthlyLimit
	a.SubscriptionType = subscriptionType
	return nil
}

func (f *fakeAccounts) DowngradeToNone(email string) error {
	a, ok := f.accounts[email]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Plan = models.PlanNone
	return nil
}

func TestRecordIncrementsByExactlyOne(t *testing.T) {
	account := &models.Account{Email: "u@example.com", Plan: "Growth", CreditsUsed: 40, MonthlyLimit: 100}
	rec := NewRecorder(newFakeAccounts(account))

	require.NoError(t, rec.Record(context.Background(), "u@example.com"))
	assert.Equal(t, 41, account.CreditsUsed)

	// Recording twice adds exactly two, independent of other fields.
	require.NoError(t, rec.Record(context.Background(), "u@example.com"))
	assert.Equal(t, 42, account.CreditsUsed)
}

func TestRecordUnknownAccount(t *testing.T) {
	rec := NewRecorder(newFakeAccounts())
	err := rec.Record(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestConsumeStopsAtCap(t *testing.T) {
	account := &models.Account{Email: "u@example.com", Plan: "Weekly", CreditsUsed: 19, MonthlyLimit: 20}
	rec := NewRecorder(newFakeAccounts(account))

	require.NoError(t, rec.Consume(context.Background(), "u@example.com"))
	assert.Equal(t, 20, account.CreditsUsed)

	err := rec.Consume(context.Background(), "u@example.com")
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 20, account.CreditsUsed)
}

func TestConsumeUnlimited(t *testing.T) {
	account := &models.Account{Email: "u@example.com", Plan: "Pro", CreditsUsed: 9999, MonthlyLimit: models.LimitUnlimited}
	rec := NewRecorder(newFakeAccounts(account))

	require.NoError(t, rec.Consume(context.Background(), "u@example.com"))
	assert.Equal(t, 10000, account.CreditsUsed)
}

func TestRemaining(t *testing.T) {
	rec := NewRecorder(newFakeAccounts())

	assert.Equal(t, 60, rec.Remaining(&models.Account{Plan: "Growth", CreditsUsed: 40, MonthlyLimit: 100}))
	assert.Equal(t, 0, rec.Remaining(&models.Account{Plan: "Weekly", CreditsUsed: 25, MonthlyLimit: 20}))
	assert.Equal(t, models.LimitUnlimited, rec.Remaining(&models.Account{Plan: "Pro", CreditsUsed: 9999, MonthlyLimit: models.LimitUnlimited}))
}

func TestConsumeUnknownAccount(t *testing.T) {
	rec := NewRecorder(newFakeAccounts())
	err := rec.Consume(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
