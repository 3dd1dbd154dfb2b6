package repositories

import (
	"fmt"

	"celebra/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOccasionRepository is a GORM implementation of OccasionRepository.
type GORMOccasionRepository struct {
	db *gorm.DB
}

// NewGORMOccasionRepository creates a new instance of GORMOccasionRepository.
func NewGORMOccasionRepository(db *gorm.DB) *GORMOccasionRepository {
	return &GORMOccasionRepository{
		db: db,
	}
}

// GetAllActive returns the active occasions in display order.
func (r *GORMOccasionRepository) GetAllActive() ([]models.Occasion, error) {
	var occasions []models.Occasion
	err := r.db.Where("is_active = ?", true).
		Order("sort_order ASC").Order("name ASC").
		Find(&occasions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active occasions: %w", err)
	}
	return occasions, nil
}

// GetBySlugActive retrieves an active occasion by its slug.
func (r *GORMOccasionRepository) GetBySlugActive(slug string) (*models.Occasion, error) {
	var occasion models.Occasion
	err := r.db.First(&occasion, "slug = ? AND is_active = ?", slug, true).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get occasion by slug %s: %w", slug, err)
	}
	return &occasion, nil
}

// GetByID retrieves an occasion by its ID, active or not.
func (r *GORMOccasionRepository) GetByID(id string) (*models.Occasion, error) {
	var occasion models.Occasion
	if err := r.db.First(&occasion, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get occasion by ID %s: %w", id, err)
	}
	return &occasion, nil
}

// Create creates a new occasion in the database.
func (r *GORMOccasionRepository) Create(occasion *models.Occasion) error {
	if occasion.ID == "" {
		occasion.ID = uuid.New().String()
	}
	if err := r.db.Create(occasion).Error; err != nil {
		return fmt.Errorf("failed to create occasion: %w", err)
	}
	return nil
}
