package repositories

import "celebra/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Update(user *models.User) error
	GetAllWithRequestCounts() ([]models.User, error)
	Delete(user *models.User) error
}
