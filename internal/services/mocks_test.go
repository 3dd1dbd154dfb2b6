package services_test

import (
	"celebra/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockCelebrationRepository is a mock implementation of repositories.CelebrationRepository.
type MockCelebrationRepository struct {
	mock.Mock
}

func (m *MockCelebrationRepository) Create(request *models.CelebrationRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

func (m *MockCelebrationRepository) GetBySlug(slug string) (*models.CelebrationRequest, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CelebrationRequest), args.Error(1)
}

func (m *MockCelebrationRepository) GetByID(id string) (*models.CelebrationRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CelebrationRequest), args.Error(1)
}

func (m *MockCelebrationRepository) GetByIDAndOwner(id, userID string) (*models.CelebrationRequest, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CelebrationRequest), args.Error(1)
}

func (m *MockCelebrationRepository) GetAllByUser(userID string) ([]models.CelebrationRequest, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.CelebrationRequest), args.Error(1)
}

func (m *MockCelebrationRepository) GetAll() ([]models.CelebrationRequest, error) {
	args := m.Called()
	return args.Get(0).([]models.CelebrationRequest), args.Error(1)
}

func (m *MockCelebrationRepository) CountByUser(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCelebrationRepository) Save(request *models.CelebrationRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

func (m *MockCelebrationRepository) Delete(request *models.CelebrationRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

func (m *MockCelebrationRepository) GetOwnedImagePaths(userID string) ([]string, error) {
	args := m.Called(userID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCelebrationRepository) DeleteByUser(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockOccasionRepository is a mock implementation of repositories.OccasionRepository.
type MockOccasionRepository struct {
	mock.Mock
}

func (m *MockOccasionRepository) GetAllActive() ([]models.Occasion, error) {
	args := m.Called()
	return args.Get(0).([]models.Occasion), args.Error(1)
}

func (m *MockOccasionRepository) GetBySlugActive(slug string) (*models.Occasion, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Occasion), args.Error(1)
}

func (m *MockOccasionRepository) GetByID(id string) (*models.Occasion, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Occasion), args.Error(1)
}

func (m *MockOccasionRepository) Create(occasion *models.Occasion) error {
	args := m.Called(occasion)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetAllWithRequestCounts() ([]models.User, error) {
	args := m.Called()
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Delete(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// MockAssetStore is a mock implementation of storage.AssetStore.
type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) Store(filename string, data []byte) (string, error) {
	args := m.Called(filename, data)
	return args.String(0), args.Error(1)
}

func (m *MockAssetStore) Delete(reference string) error {
	args := m.Called(reference)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}
