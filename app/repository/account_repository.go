package repository

import (
	"github.com/scrivehq/scrive/app/models"
	"gorm.io/gorm"
)

// accountRepository implements the AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository instance
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account in the database
func (r *accountRepository) Create(account *models.Account) error {
	return r.db.Create(account).Error
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByEmail retrieves an account by its email address
func (r *accountRepository) GetByEmail(email string) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("email = ?", email).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByGoogleID retrieves an account linked to a Google identity
func (r *accountRepository) GetByGoogleID(googleID string) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("google_id = ?", googleID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Update saves changes to an existing account
func (r *accountRepository) Update(account *models.Account) error {
	return r.db.Save(account).Error
}

// IncrementUsage adds delta to credits_used in a single UPDATE statement.
func (r *accountRepository) IncrementUsage(email string, delta int) error {
	res := r.db.Model(&models.Account{}).
		Where("email = ?", email).
		UpdateColumn("credits_used", gorm.Expr("credits_used + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ConsumeCredit performs the conditional increment-if-below-cap update.
// A negative monthly_limit means unlimited and always passes the guard.
func (r *accountRepository) ConsumeCredit(email string) error {
	res := r.db.Model(&models.Account{}).
		Where("email = ? AND (monthly_limit < 0 OR credits_used < monthly_limit)", email).
		UpdateColumn("credits_used", gorm.Expr("credits_used + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the account is gone or the cap is reached.
	var count int64
	if err := r.db.Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrCreditsExhausted
}

// SetPlan overwrites plan state and resets the usage counter. The write is a
// plain overwrite so replayed activation events converge on the same state.
func (r *accountRepository) SetPlan(email, plan string, monthlyLimit int, subscriptionType string) error {
	var account models.Account
	if err := r.db.Where("email = ?", email).First(&account).Error; err != nil {
		return err
	}
	return r.db.Model(&account).Updates(map[string]interface{}{
		"plan":              plan,
		"credits_used":      0,
		"monthly_limit":     monthlyLimit,
		"subscription_type": subscriptionType,
	}).Error
}

// DowngradeToNone clears the plan of an exhausted introductory tier.
func (r *accountRepository) DowngradeToNone(email string) error {
	return r.db.Model(&models.Account{}).
		Where("email = ?", email).
		UpdateColumn("plan", models.PlanNone).Error
}

// Count returns the total number of accounts
func (r *accountRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Account{}).Count(&count).Error
	return count, err
}
