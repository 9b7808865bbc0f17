package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// PlanNone is the entry state: no entitlement at all.
	PlanNone = "none"

	SubscriptionWeekly  = "weekly"
	SubscriptionMonthly = "monthly"

	// LimitUnlimited marks a plan without a numeric thumbnail cap.
	LimitUnlimited = -1
)

// Account is one user of the product: identity, current plan and the
// usage counter for the running billing cycle.
type Account struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Email            string         `gorm:"uniqueIndex;type:varchar(200) CHARACTER SET utf8 COLLATE utf8_bin" json:"email" validate:"required,email,min=5,max=200"`
	DisplayName      string         `gorm:"type:varchar(150)" json:"display_name" validate:"max=150"`
	AvatarURL        string         `gorm:"type:varchar(255);default:null" json:"avatar_url" validate:"max=255"`
	Password         string         `gorm:"type:text" json:"-" validate:"required,min=6"`
	GoogleID         string         `gorm:"type:varchar(100);default:null;index" json:"-"`
	Plan             string         `gorm:"type:varchar(50);default:'none'" json:"plan"`
	CreditsUsed      int            `gorm:"not null;default:0" json:"credits_used"`
	MonthlyLimit     int            `gorm:"not null;default:0" json:"monthly_limit"`
	SubscriptionType string         `gorm:"type:varchar(20);default:'monthly'" json:"subscription_type" validate:"oneof=weekly monthly"`
	LastLoginAt      *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Account) Validate() error {
	v := validator.New()

	return v.Struct(a)
}

// CreateAccount builds a new account with no plan and no credits. Entitlement
// only appears after a payment webhook activates a plan.
func CreateAccount(email, displayName, password string) (*Account, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	a := &Account{
		Email:            email,
		DisplayName:      displayName,
		Password:         pw,
		Plan:             PlanNone,
		CreditsUsed:      0,
		MonthlyLimit:     0,
		SubscriptionType: SubscriptionMonthly,
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the stored password
func (a *Account) CheckPassword(password string) bool {
	return CheckPasswordHash(password, a.Password)
}

// SetPassword hashes and sets a new password for the account
func (a *Account) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	a.Password = hashedPassword
	return nil
}

// HasUnlimitedCredits reports whether the account's plan carries no numeric cap.
func (a *Account) HasUnlimitedCredits() bool {
	return a.MonthlyLimit == LimitUnlimited
}

// CreditsRemaining returns how many generations are left in the current cycle.
// Unlimited plans report LimitUnlimited.
func (a *Account) CreditsRemaining() int {
	if a.HasUnlimitedCredits() {
		return LimitUnlimited
	}
	remaining := a.MonthlyLimit - a.CreditsUsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
