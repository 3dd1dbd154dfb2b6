package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"celebra/internal/models"
	"celebra/internal/repositories"
	"celebra/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventPublisher publishes domain events to a message broker. A nil publisher
// disables event publishing.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// CreateCelebrationInput carries the fields for a new celebration request.
type CreateCelebrationInput struct {
	PartnerName    string
	Message        *string
	AffectionLevel string
	ImagePath      *string
	OccasionID     string
}

// UpdateCelebrationInput carries a partial update. Nil / empty fields are left
// untouched. DeleteImage is only consulted when no new ImagePath is supplied.
type UpdateCelebrationInput struct {
	PartnerName    string
	Message        *string
	AffectionLevel string
	ImagePath      *string
	OccasionID     string
	DeleteImage    bool
	ExtraData      map[string]any
}

// CelebrationService handles business logic for celebration requests: quota
// enforcement, ownership checks, and the lifecycle of the image asset attached
// to a request.
type CelebrationService struct {
	celebrationRepo repositories.CelebrationRepository
	occasionRepo    repositories.OccasionRepository
	assets          storage.AssetStore
	mqClient        EventPublisher
}

// NewCelebrationService creates a new CelebrationService. mqClient may be nil.
func NewCelebrationService(
	celebrationRepo repositories.CelebrationRepository,
	occasionRepo repositories.OccasionRepository,
	assets storage.AssetStore,
	mqClient EventPublisher,
) *CelebrationService {
	return &CelebrationService{
		celebrationRepo: celebrationRepo,
		occasionRepo:    occasionRepo,
		assets:          assets,
		mqClient:        mqClient,
	}
}

// UploadImage stores a normalized image payload and returns its public path.
func (s *CelebrationService) UploadImage(data []byte, filename string) (string, error) {
	return s.assets.Store(filename, data)
}

// Create creates a celebration request for user. Non-admin users with a quota
// may not exceed it. The quota check and the insert are two statements, so
// concurrent creates by the same user can overshoot the limit slightly; the
// quota is a soft limit.
func (s *CelebrationService) Create(user *models.User, input CreateCelebrationInput) (*models.CelebrationRequest, error) {
	if !user.IsAdmin() && user.MaxRequests != nil {
		count, err := s.celebrationRepo.CountByUser(user.ID)
		if err != nil {
			return nil, err
		}
		if count >= int64(*user.MaxRequests) {
			return nil, ErrQuotaExceeded
		}
	}

	request := &models.CelebrationRequest{
		UserID:         user.ID,
		PartnerName:    input.PartnerName,
		Message:        input.Message,
		Slug:           uuid.New().String(),
		Response:       models.ResponsePending,
		AffectionLevel: input.AffectionLevel,
		ImagePath:      input.ImagePath,
	}
	if request.AffectionLevel == "" {
		request.AffectionLevel = models.DefaultAffectionLevel
	}

	// Unknown occasion ids are ignored, not rejected.
	if input.OccasionID != "" {
		if occasion, err := s.occasionRepo.GetByID(input.OccasionID); err == nil {
			request.OccasionID = &occasion.ID
			request.Occasion = occasion
		}
	}

	if err := s.celebrationRepo.Create(request); err != nil {
		return nil, err
	}

	s.publishEvent("celebration.created", map[string]any{
		"requestId": request.ID,
		"userId":    request.UserID,
		"slug":      request.Slug,
	})

	return request, nil
}

// FindBySlug returns the request for the public slug with its owner and
// occasion attached. No authorization check: the slug is the capability.
func (s *CelebrationService) FindBySlug(slug string) (*models.CelebrationRequest, error) {
	request, err := s.celebrationRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("celebration request not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return request, nil
}

// UpdateResponse records the partner's response on the request identified by
// slug. Reachable by anyone holding the slug.
func (s *CelebrationService) UpdateResponse(slug, response string) (*models.CelebrationRequest, error) {
	request, err := s.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	request.Response = response
	if err := s.celebrationRepo.Save(request); err != nil {
		return nil, err
	}

	s.publishEvent("celebration.response", map[string]any{
		"requestId": request.ID,
		"slug":      request.Slug,
		"response":  request.Response,
	})

	return request, nil
}

// FindAll returns the requests owned by user, newest first.
func (s *CelebrationService) FindAll(user *models.User) ([]models.CelebrationRequest, error) {
	return s.celebrationRepo.GetAllByUser(user.ID)
}

// FindAllAdmin returns every request in the system, newest first.
func (s *CelebrationService) FindAllAdmin() ([]models.CelebrationRequest, error) {
	return s.celebrationRepo.GetAll()
}

// FindAllByUserAdmin returns every request owned by the given user, newest first.
func (s *CelebrationService) FindAllByUserAdmin(userID string) ([]models.CelebrationRequest, error) {
	return s.celebrationRepo.GetAllByUser(userID)
}

// Update applies a partial update. Only the owner or an admin may update; a
// foreign or missing id fails with ErrNotFound either way. A new image
// replaces (and deletes) the current asset; the DeleteImage flag clears it
// when no new image is supplied.
func (s *CelebrationService) Update(id string, updates UpdateCelebrationInput, user *models.User) (*models.CelebrationRequest, error) {
	request, err := s.findForMutation(id, user)
	if err != nil {
		return nil, err
	}

	if updates.PartnerName != "" {
		request.PartnerName = updates.PartnerName
	}
	if updates.Message != nil {
		request.Message = updates.Message
	}
	if updates.AffectionLevel != "" {
		request.AffectionLevel = updates.AffectionLevel
	}
	if updates.OccasionID != "" {
		if occasion, err := s.occasionRepo.GetByID(updates.OccasionID); err == nil {
			request.OccasionID = &occasion.ID
			request.Occasion = occasion
		}
	}

	if updates.ImagePath != nil {
		if request.ImagePath != nil && *request.ImagePath != *updates.ImagePath {
			s.deleteAsset(*request.ImagePath)
		}
		request.ImagePath = updates.ImagePath
	} else if updates.DeleteImage {
		if request.ImagePath != nil {
			s.deleteAsset(*request.ImagePath)
		}
		request.ImagePath = nil
	}

	if updates.ExtraData != nil {
		if request.ExtraData == nil {
			request.ExtraData = make(map[string]any, len(updates.ExtraData))
		}
		for k, v := range updates.ExtraData {
			request.ExtraData[k] = v
		}
	}

	if err := s.celebrationRepo.Save(request); err != nil {
		return nil, err
	}
	return request, nil
}

// Delete removes a request and its asset. Authorization matches Update.
func (s *CelebrationService) Delete(id string, user *models.User) error {
	request, err := s.findForMutation(id, user)
	if err != nil {
		return err
	}
	if request.ImagePath != nil {
		s.deleteAsset(*request.ImagePath)
	}
	return s.celebrationRepo.Delete(request)
}

// DeleteAdmin removes any request by id, along with its asset.
func (s *CelebrationService) DeleteAdmin(id string) error {
	request, err := s.celebrationRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("celebration request not found: %w", ErrNotFound)
		}
		return err
	}
	if request.ImagePath != nil {
		s.deleteAsset(*request.ImagePath)
	}
	return s.celebrationRepo.Delete(request)
}

// DeleteByUserID removes every request owned by a user, deleting their assets
// first. Used by account deletion.
func (s *CelebrationService) DeleteByUserID(userID string) error {
	paths, err := s.celebrationRepo.GetOwnedImagePaths(userID)
	if err != nil {
		return err
	}
	for _, path := range paths {
		s.deleteAsset(path)
	}
	return s.celebrationRepo.DeleteByUser(userID)
}

// findForMutation loads a request for update/delete. Admins see any record;
// everyone else only their own. Both "does not exist" and "not yours" come
// back as ErrNotFound.
func (s *CelebrationService) findForMutation(id string, user *models.User) (*models.CelebrationRequest, error) {
	var request *models.CelebrationRequest
	var err error
	if user.IsAdmin() {
		request, err = s.celebrationRepo.GetByID(id)
	} else {
		request, err = s.celebrationRepo.GetByIDAndOwner(id, user.ID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("celebration request not found or not authorized: %w", ErrNotFound)
		}
		return nil, err
	}
	return request, nil
}

// deleteAsset removes a stored image. Failures are logged, never raised: the
// record mutation that triggered the cleanup must still complete.
func (s *CelebrationService) deleteAsset(reference string) {
	if err := s.assets.Delete(reference); err != nil {
		log.Printf("Warning: failed to delete asset %s: %v", reference, err)
	}
}

// publishEvent sends a JSON event through the broker when one is configured.
// Publish failures are logged and swallowed.
func (s *CelebrationService) publishEvent(routingKey string, payload map[string]any) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.mqClient.Publish("celebration", routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
