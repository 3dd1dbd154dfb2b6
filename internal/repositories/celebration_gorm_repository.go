package repositories

import (
	"fmt"

	"celebra/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCelebrationRepository is a GORM implementation of CelebrationRepository.
type GORMCelebrationRepository struct {
	db *gorm.DB
}

// NewGORMCelebrationRepository creates a new instance of GORMCelebrationRepository.
func NewGORMCelebrationRepository(db *gorm.DB) *GORMCelebrationRepository {
	return &GORMCelebrationRepository{
		db: db,
	}
}

// Create creates a new celebration request in the database.
func (r *GORMCelebrationRepository) Create(request *models.CelebrationRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if err := r.db.Create(request).Error; err != nil {
		return fmt.Errorf("failed to create celebration request: %w", err)
	}
	return nil
}

// GetBySlug retrieves a celebration request by its public slug with the owner
// and occasion attached.
func (r *GORMCelebrationRepository) GetBySlug(slug string) (*models.CelebrationRequest, error) {
	var request models.CelebrationRequest
	err := r.db.Preload("User").Preload("Occasion").
		First(&request, "slug = ?", slug).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get celebration request by slug %s: %w", slug, err)
	}
	return &request, nil
}

// GetByID retrieves a celebration request by its ID regardless of owner.
func (r *GORMCelebrationRepository) GetByID(id string) (*models.CelebrationRequest, error) {
	var request models.CelebrationRequest
	if err := r.db.First(&request, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get celebration request by ID %s: %w", id, err)
	}
	return &request, nil
}

// GetByIDAndOwner retrieves a celebration request only when it belongs to the
// given user. A miss and a foreign record look the same to the caller.
func (r *GORMCelebrationRepository) GetByIDAndOwner(id, userID string) (*models.CelebrationRequest, error) {
	var request models.CelebrationRequest
	err := r.db.First(&request, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get celebration request %s for user %s: %w", id, userID, err)
	}
	return &request, nil
}

// GetAllByUser returns every request owned by the user, newest first, with
// the occasion attached.
func (r *GORMCelebrationRepository) GetAllByUser(userID string) ([]models.CelebrationRequest, error) {
	var requests []models.CelebrationRequest
	err := r.db.Preload("Occasion").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get celebration requests for user %s: %w", userID, err)
	}
	return requests, nil
}

// GetAll returns every request in the table, newest first, with owner and
// occasion attached.
func (r *GORMCelebrationRepository) GetAll() ([]models.CelebrationRequest, error) {
	var requests []models.CelebrationRequest
	err := r.db.Preload("User").Preload("Occasion").
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all celebration requests: %w", err)
	}
	return requests, nil
}

// CountByUser counts how many requests the user currently owns.
func (r *GORMCelebrationRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.CelebrationRequest{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count celebration requests for user %s: %w", userID, err)
	}
	return count, nil
}

// Save persists all fields of an existing celebration request.
func (r *GORMCelebrationRepository) Save(request *models.CelebrationRequest) error {
	if err := r.db.Save(request).Error; err != nil {
		return fmt.Errorf("failed to save celebration request: %w", err)
	}
	return nil
}

// Delete removes a celebration request record from the database.
func (r *GORMCelebrationRepository) Delete(request *models.CelebrationRequest) error {
	res := r.db.Delete(&models.CelebrationRequest{}, "id = ?", request.ID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete celebration request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("celebration request with ID %s not found for deletion: %w", request.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// GetOwnedImagePaths returns the non-null image paths of every request owned
// by the user.
func (r *GORMCelebrationRepository) GetOwnedImagePaths(userID string) ([]string, error) {
	var paths []string
	err := r.db.Model(&models.CelebrationRequest{}).
		Where("user_id = ? AND image_path IS NOT NULL", userID).
		Pluck("image_path", &paths).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get image paths for user %s: %w", userID, err)
	}
	return paths, nil
}

// DeleteByUser removes every request owned by the user in one statement.
func (r *GORMCelebrationRepository) DeleteByUser(userID string) error {
	err := r.db.Delete(&models.CelebrationRequest{}, "user_id = ?", userID).Error
	if err != nil {
		return fmt.Errorf("failed to delete celebration requests for user %s: %w", userID, err)
	}
	return nil
}
