package services

import (
	"celebra/internal/models"
	"celebra/internal/repositories"
)

// OccasionService handles the read-mostly occasion catalog.
type OccasionService struct {
	occasionRepo repositories.OccasionRepository
}

// NewOccasionService creates a new OccasionService.
func NewOccasionService(occasionRepo repositories.OccasionRepository) *OccasionService {
	return &OccasionService{
		occasionRepo: occasionRepo,
	}
}

// FindAll returns the active occasions in display order.
func (s *OccasionService) FindAll() ([]models.Occasion, error) {
	return s.occasionRepo.GetAllActive()
}

// FindBySlug returns the active occasion with the given slug, or ErrNotFound.
func (s *OccasionService) FindBySlug(slug string) (*models.Occasion, error) {
	occasion, err := s.occasionRepo.GetBySlugActive(slug)
	if err != nil {
		return nil, notFoundOr(err, "occasion")
	}
	return occasion, nil
}
