package repositories

import (
	"fmt"

	"celebra/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// Update persists all fields of an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for update: %w", user.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// GetAllWithRequestCounts returns every user, newest first, with the number of
// celebration requests each one owns.
func (r *GORMUserRepository) GetAllWithRequestCounts() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}

	type ownerCount struct {
		UserID string
		Count  int64
	}
	var counts []ownerCount
	err := r.db.Model(&models.CelebrationRequest{}).
		Select("user_id, count(*) as count").
		Group("user_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count celebration requests per user: %w", err)
	}

	byOwner := make(map[string]int64, len(counts))
	for _, c := range counts {
		byOwner[c.UserID] = c.Count
	}
	for i := range users {
		users[i].RequestsCount = byOwner[users[i].ID]
	}
	return users, nil
}

// Delete removes a user record from the database.
func (r *GORMUserRepository) Delete(user *models.User) error {
	res := r.db.Delete(&models.User{}, "id = ?", user.ID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for deletion: %w", user.ID, gorm.ErrRecordNotFound)
	}
	return nil
}
