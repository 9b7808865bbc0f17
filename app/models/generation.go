package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Generation records one thumbnail generation run for an account.
type Generation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UUID           string    `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	AccountID      uint      `gorm:"not null;index" json:"account_id"`
	Prompt         string    `gorm:"type:text;not null" json:"prompt"`
	EnhancedPrompt string    `gorm:"type:text" json:"enhanced_prompt"`
	TargetPlatform string    `gorm:"type:varchar(50);default:'youtube'" json:"target_platform"`
	VariationCount int       `gorm:"not null;default:0" json:"variation_count"`
	ArchiveKey     string    `gorm:"type:varchar(255);default:''" json:"archive_key"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// BeforeCreate assigns the public UUID.
func (g *Generation) BeforeCreate(tx *gorm.DB) error {
	if g.UUID == "" {
		g.UUID = uuid.New().String()
	}
	return nil
}
