package repository

import (
	"github.com/scrivehq/scrive/app/models"
	"gorm.io/gorm"
)

// generationRepository implements the GenerationRepository interface
type generationRepository struct {
	db *gorm.DB
}

// NewGenerationRepository creates a new generation repository instance
func NewGenerationRepository(db *gorm.DB) GenerationRepository {
	return &generationRepository{db: db}
}

// Create persists a generation record
func (r *generationRepository) Create(generation *models.Generation) error {
	return r.db.Create(generation).Error
}

// Update saves changes to an existing generation record
func (r *generationRepository) Update(generation *models.Generation) error {
	return r.db.Save(generation).Error
}

// GetByUUID retrieves a generation by its public UUID
func (r *generationRepository) GetByUUID(uuid string) (*models.Generation, error) {
	var generation models.Generation
	err := r.db.Where("uuid = ?", uuid).First(&generation).Error
	if err != nil {
		return nil, err
	}
	return &generation, nil
}

// GetByAccountID lists recent generations for an account, newest first
func (r *generationRepository) GetByAccountID(accountID uint, offset, limit int) ([]models.Generation, error) {
	var generations []models.Generation
	err := r.db.Where("account_id = ?", accountID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&generations).Error
	return generations, err
}

// CountByAccountID returns how many generations an account has run
func (r *generationRepository) CountByAccountID(accountID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Generation{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}
