package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"celebra/internal/models"
	"celebra/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"gorm.io/gorm"
)

// GoogleProfile is the identity assertion received from Google after the
// OAuth code exchange.
type GoogleProfile struct {
	Email    string
	Name     string
	Picture  string
	GoogleID string
}

// AuthService exchanges a Google identity for a local user record and issues
// the session tokens the rest of the API consumes.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// ValidateGoogleUser upserts the local user for a Google profile, matched by
// email. Existing users get their Google id, avatar, and name refreshed; new
// users start inactive with the default quota.
func (s *AuthService) ValidateGoogleUser(profile GoogleProfile) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(profile.Email)
	if err == nil {
		user.GoogleID = &profile.GoogleID
		user.Name = profile.Name
		if profile.Picture != "" {
			user.Avatar = &profile.Picture
		}
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	maxRequests := DefaultMaxRequests
	user = &models.User{
		Email:       profile.Email,
		GoogleID:    &profile.GoogleID,
		Name:        profile.Name,
		Role:        models.RoleUser,
		Status:      models.StatusInactive,
		MaxRequests: &maxRequests,
	}
	if profile.Picture != "" {
		user.Avatar = &profile.Picture
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login issues a signed session token for the user.
func (s *AuthService) Login(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":   time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a session token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
