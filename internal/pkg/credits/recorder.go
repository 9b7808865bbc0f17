package credits

import (
	"context"
	"errors"
	"log"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/app/repository"
	"gorm.io/gorm"
)

var (
	// ErrAccountNotFound signals that the email no longer resolves to an
	// account. Entitlement was checked upstream, so this is a caller bug.
	ErrAccountNotFound = errors.New("account not found")
	// ErrExhausted signals that the monthly cap was reached before the
	// credit could be consumed.
	ErrExhausted = errors.New("monthly credit limit reached")
)

// Recorder meters generation usage against the account store.
type Recorder struct {
	accounts repository.AccountRepository
}

// NewRecorder creates a recorder on top of the injected account repository.
func NewRecorder(accounts repository.AccountRepository) *Recorder {
	return &Recorder{accounts: accounts}
}

// Record books exactly one generation against the account. It does not
// re-check entitlement and it is not rolled back if the caller's work
// already happened; failures are surfaced to be logged upstream.
func (r *Recorder) Record(ctx context.Context, email string) error {
	_ = ctx
	if err := r.accounts.IncrementUsage(email, 1); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("credits: account not found while recording usage: %s", email)
			return ErrAccountNotFound
		}
		return err
	}
	return nil
}

// Remaining reports how many generations are left on the account snapshot.
// Unlimited plans report models.LimitUnlimited.
func (r *Recorder) Remaining(account *models.Account) int {
	return account.CreditsRemaining()
}

// Consume books one credit only while the counter is below the cap. The
// check and the increment are a single conditional update in the store, so
// two concurrent requests at cap-1 cannot both pass.
func (r *Recorder) Consume(ctx context.Context, email string) error {
	_ = ctx
	err := r.accounts.ConsumeCredit(email)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrAccountNotFound
	case errors.Is(err, repository.ErrCreditsExhausted):
		return ErrExhausted
	default:
		return err
	}
}
