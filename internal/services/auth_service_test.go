package services_test

import (
	"testing"

	"celebra/internal/models"
	"celebra/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuthService_ValidateGoogleUser_CreatesNewUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, "test_jwt_secret")

	userRepo.On("GetByEmail", "new@example.com").Return(nil, recordMiss()).Once()
	userRepo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "new@example.com" &&
			u.Role == models.RoleUser &&
			u.Status == models.StatusInactive &&
			u.MaxRequests != nil && *u.MaxRequests == services.DefaultMaxRequests
	})).Return(nil).Once()

	user, err := service.ValidateGoogleUser(services.GoogleProfile{
		Email:    "new@example.com",
		Name:     "New User",
		Picture:  "https://example.com/p.png",
		GoogleID: "g-123",
	})
	assert.NoError(t, err)
	assert.Equal(t, "g-123", *user.GoogleID)
	userRepo.AssertExpectations(t)
}

func TestAuthService_ValidateGoogleUser_RefreshesExistingUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, "test_jwt_secret")

	existing := &models.User{ID: "u1", Email: "known@example.com", Name: "Old Name", Role: models.RoleUser}
	userRepo.On("GetByEmail", "known@example.com").Return(existing, nil).Once()
	userRepo.On("Update", existing).Return(nil).Once()

	user, err := service.ValidateGoogleUser(services.GoogleProfile{
		Email:    "known@example.com",
		Name:     "Fresh Name",
		Picture:  "https://example.com/new.png",
		GoogleID: "g-456",
	})
	assert.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Fresh Name", user.Name)
	assert.Equal(t, "g-456", *user.GoogleID)
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_LoginAndValidateToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, "test_jwt_secret")

	user := &models.User{ID: "u1", Email: "u1@example.com"}
	token, err := service.Login(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", claims["sub"])
	assert.Equal(t, "u1@example.com", claims["email"])
}

func TestAuthService_ValidateToken_RejectsForgedToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	issuer := services.NewAuthService(userRepo, "secret_a")
	verifier := services.NewAuthService(userRepo, "secret_b")

	token, err := issuer.Login(&models.User{ID: "u1", Email: "u1@example.com"})
	assert.NoError(t, err)

	claims, err := verifier.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
