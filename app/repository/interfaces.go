package repository

import (
	"errors"

	"github.com/scrivehq/scrive/app/models"
	"gorm.io/gorm"
)

// ErrCreditsExhausted is returned by ConsumeCredit when the account exists
// but its usage counter already reached the monthly cap.
var ErrCreditsExhausted = errors.New("credits exhausted")

// AccountRepository defines the interface for account-related database operations
type AccountRepository interface {
	Create(account *models.Account) error
	GetByID(id uint) (*models.Account, error)
	GetByEmail(email string) (*models.Account, error)
	GetByGoogleID(googleID string) (*models.Account, error)
	Update(account *models.Account) error

	// IncrementUsage adds delta to the usage counter in a single atomic update.
	IncrementUsage(email string, delta int) error
	// ConsumeCredit increments the usage counter by one only while it is
	// below the monthly cap (unlimited caps always pass). The guard and the
	// increment are one UPDATE, so concurrent requests cannot overshoot.
	ConsumeCredit(email string) error
	// SetPlan overwrites the plan, cap and billing cadence and resets the
	// usage counter to zero.
	SetPlan(email, plan string, monthlyLimit int, subscriptionType string) error
	// DowngradeToNone strips the plan after an introductory tier is exhausted.
	DowngradeToNone(email string) error

	Count() (int64, error)
}

// GenerationRepository defines the interface for generation history operations
type GenerationRepository interface {
	Create(generation *models.Generation) error
	Update(generation *models.Generation) error
	GetByUUID(uuid string) (*models.Generation, error)
	GetByAccountID(accountID uint, offset, limit int) ([]models.Generation, error)
	CountByAccountID(accountID uint) (int64, error)
}

// Repositories holds all repository instances
type Repositories struct {
	Account    AccountRepository
	Generation GenerationRepository
}

// NewRepositories creates all repositories backed by the given DB handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Account:    NewAccountRepository(db),
		Generation: NewGenerationRepository(db),
	}
}
