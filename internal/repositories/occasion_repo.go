package repositories

import "celebra/internal/models"

// OccasionRepository defines the interface for occasion catalog data access.
type OccasionRepository interface {
	GetAllActive() ([]models.Occasion, error)
	GetBySlugActive(slug string) (*models.Occasion, error)
	GetByID(id string) (*models.Occasion, error)
	Create(occasion *models.Occasion) error
}
