package services

import (
	"errors"
	"fmt"
	"log"

	"celebra/internal/models"
	"celebra/internal/repositories"

	"gorm.io/gorm"
)

// SuperAdminEmail identifies the one account that can never have its role,
// status, or existence changed through any mutation path, including its own.
const SuperAdminEmail = "admin@celebra.app"

// DefaultMaxRequests is the quota applied to accounts created through sign-in.
const DefaultMaxRequests = 3

// UserService handles user management: lookups, admin moderation with
// super-admin and self-mutation guards, and account deletion with its cascade
// into celebration requests and their assets.
type UserService struct {
	userRepo     repositories.UserRepository
	celebrations *CelebrationService
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, celebrations *CelebrationService) *UserService {
	return &UserService{
		userRepo:     userRepo,
		celebrations: celebrations,
	}
}

// EnsureSuperAdmin creates or promotes the super-admin account. Run once at
// process start; it is idempotent.
func (s *UserService) EnsureSuperAdmin() error {
	user, err := s.userRepo.GetByEmail(SuperAdminEmail)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		admin := &models.User{
			Email:  SuperAdminEmail,
			Name:   "Admin",
			Role:   models.RoleAdmin,
			Status: models.StatusActive,
			// nil MaxRequests: no quota for the super admin
		}
		if err := s.userRepo.Create(admin); err != nil {
			return err
		}
		log.Println("Super admin user created")
		return nil
	}

	updated := false
	if user.Role != models.RoleAdmin {
		user.Role = models.RoleAdmin
		updated = true
	}
	if user.Status != models.StatusActive {
		user.Status = models.StatusActive
		updated = true
	}
	if updated {
		if err := s.userRepo.Update(user); err != nil {
			return err
		}
		log.Println("Super admin user promoted to admin/active")
	}
	return nil
}

// FindByID returns the user with the given id, or ErrNotFound.
func (s *UserService) FindByID(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return user, nil
}

// FindAll returns every user, newest first, with owned-request counts.
func (s *UserService) FindAll() ([]models.User, error) {
	return s.userRepo.GetAllWithRequestCounts()
}

// UpdateStatus sets a user's status. The super admin can never be the target,
// and an admin cannot change their own status.
func (s *UserService) UpdateStatus(id, status string, requestingUser *models.User) (*models.User, error) {
	target, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if target.Email == SuperAdminEmail {
		return nil, fmt.Errorf("cannot modify super admin status: %w", ErrNotAuthorized)
	}
	if target.ID == requestingUser.ID {
		return nil, fmt.Errorf("you cannot change your own status: %w", ErrNotAuthorized)
	}
	target.Status = status
	if err := s.userRepo.Update(target); err != nil {
		return nil, err
	}
	return target, nil
}

// UpdateRole sets a user's role, with the same guards as UpdateStatus.
func (s *UserService) UpdateRole(id, role string, requestingUser *models.User) (*models.User, error) {
	target, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if target.Email == SuperAdminEmail {
		return nil, fmt.Errorf("cannot modify super admin role: %w", ErrNotAuthorized)
	}
	if target.ID == requestingUser.ID {
		return nil, fmt.Errorf("you cannot change your own role: %w", ErrNotAuthorized)
	}
	target.Role = role
	if err := s.userRepo.Update(target); err != nil {
		return nil, err
	}
	return target, nil
}

// UpdateMaxRequests sets or clears (nil = unlimited) a user's quota.
func (s *UserService) UpdateMaxRequests(id string, maxRequests *int) (*models.User, error) {
	target, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	target.MaxRequests = maxRequests
	if err := s.userRepo.Update(target); err != nil {
		return nil, err
	}
	return target, nil
}

// Remove deletes a user and everything they own: request assets, request
// records, then the user record. The super admin is immune, and an admin
// cannot delete themselves through this path.
func (s *UserService) Remove(id string, requestingUser *models.User) error {
	target, err := s.FindByID(id)
	if err != nil {
		return err
	}
	if target.Email == SuperAdminEmail {
		return fmt.Errorf("cannot delete super admin: %w", ErrNotAuthorized)
	}
	if target.ID == requestingUser.ID {
		return fmt.Errorf("you cannot delete your own account: %w", ErrNotAuthorized)
	}
	if err := s.celebrations.DeleteByUserID(target.ID); err != nil {
		return err
	}
	return s.userRepo.Delete(target)
}

// DeleteSelf deletes the calling user's own account with the same cascade.
// The super admin cannot delete itself either.
func (s *UserService) DeleteSelf(user *models.User) error {
	if user.Email == SuperAdminEmail {
		return fmt.Errorf("super admin cannot be deleted: %w", ErrNotAuthorized)
	}
	if err := s.celebrations.DeleteByUserID(user.ID); err != nil {
		return err
	}
	return s.userRepo.Delete(user)
}

// notFoundOr collapses a GORM record miss into ErrNotFound and passes other
// errors through.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s not found: %w", what, ErrNotFound)
	}
	return err
}
