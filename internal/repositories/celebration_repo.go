package repositories

import "celebra/internal/models"

// CelebrationRepository defines the interface for celebration request data
// access. Lookups that attach relations say so in their name.
type CelebrationRepository interface {
	Create(request *models.CelebrationRequest) error
	GetBySlug(slug string) (*models.CelebrationRequest, error)
	GetByID(id string) (*models.CelebrationRequest, error)
	GetByIDAndOwner(id, userID string) (*models.CelebrationRequest, error)
	GetAllByUser(userID string) ([]models.CelebrationRequest, error)
	GetAll() ([]models.CelebrationRequest, error)
	CountByUser(userID string) (int64, error)
	Save(request *models.CelebrationRequest) error
	Delete(request *models.CelebrationRequest) error
	GetOwnedImagePaths(userID string) ([]string, error)
	DeleteByUser(userID string) error
}
