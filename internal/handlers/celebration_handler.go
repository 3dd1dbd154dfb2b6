package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"celebra/internal/imaging"
	"celebra/internal/middleware"
	"celebra/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CelebrationHandler handles HTTP requests for celebration requests.
type CelebrationHandler struct {
	service  *services.CelebrationService
	validate *validator.Validate
}

// NewCelebrationHandler creates a new CelebrationHandler.
func NewCelebrationHandler(service *services.CelebrationService) *CelebrationHandler {
	return &CelebrationHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the celebration routes with the Fiber app. The slug
// endpoints are public: the recipient holds a link, not an account.
func (h *CelebrationHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	celebrationRoutes := router.Group("/celebration")

	celebrationRoutes.Get("/admin/all", authRequired, middleware.AdminRequired(), h.HandleAdminGetAll)
	celebrationRoutes.Get("/admin/user/:userId", authRequired, middleware.AdminRequired(), h.HandleAdminGetByUser)
	celebrationRoutes.Delete("/admin/:id", authRequired, middleware.AdminRequired(), h.HandleAdminDelete)

	celebrationRoutes.Get("/mine/custom-all", authRequired, h.HandleGetMine)
	celebrationRoutes.Get("/slug/:slug", h.HandleGetBySlug)
	celebrationRoutes.Patch("/slug/:slug/response", h.HandleUpdateResponse)

	celebrationRoutes.Post("/", authRequired, h.HandleCreate)
	celebrationRoutes.Patch("/:id", authRequired, h.HandleUpdate)
	celebrationRoutes.Post("/:id/delete", authRequired, h.HandleDelete)
}

// createCelebrationRequest is the multipart body for HandleCreate; the image
// itself travels in the "image" file field.
type createCelebrationRequest struct {
	PartnerName    string  `form:"partnerName" validate:"required"`
	Message        *string `form:"message"`
	AffectionLevel string  `form:"affectionLevel"`
	OccasionID     string  `form:"occasionId"`
}

// HandleCreate creates a celebration request for the authenticated user.
func (h *CelebrationHandler) HandleCreate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req createCelebrationRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	imagePath, err := h.imageFromForm(c, "celebration")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid image upload",
			"error":   err.Error(),
		})
	}

	request, err := h.service.Create(user, services.CreateCelebrationInput{
		PartnerName:    req.PartnerName,
		Message:        req.Message,
		AffectionLevel: req.AffectionLevel,
		ImagePath:      imagePath,
		OccasionID:     req.OccasionID,
	})
	if err != nil {
		log.Printf("Error creating celebration request: %v", err)
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

// HandleGetMine returns the caller's own requests, newest first.
func (h *CelebrationHandler) HandleGetMine(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	requests, err := h.service.FindAll(user)
	if err != nil {
		log.Printf("Error getting requests for user %s: %v", user.ID, err)
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// HandleGetBySlug returns a request by its public slug. No token required.
func (h *CelebrationHandler) HandleGetBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	request, err := h.service.FindBySlug(slug)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(request)
}

type updateResponseRequest struct {
	Response string `json:"response" validate:"required,oneof=pending accepted rejected"`
}

// HandleUpdateResponse records the recipient's answer. Public by design:
// whoever holds the slug may respond.
func (h *CelebrationHandler) HandleUpdateResponse(c *fiber.Ctx) error {
	var req updateResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	request, err := h.service.UpdateResponse(c.Params("slug"), req.Response)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(request)
}

// updateCelebrationRequest is the multipart body for HandleUpdate. ExtraData
// arrives as a JSON string field; DeleteImage as the literal "true".
type updateCelebrationRequest struct {
	PartnerName    string  `form:"partnerName"`
	Message        *string `form:"message"`
	AffectionLevel string  `form:"affectionLevel"`
	OccasionID     string  `form:"occasionId"`
	DeleteImage    string  `form:"deleteImage"`
	ExtraData      string  `form:"extraData"`
}

// HandleUpdate applies a partial update to a request owned by the caller (or
// any request, for admins).
func (h *CelebrationHandler) HandleUpdate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id := c.Params("id")

	var req updateCelebrationRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	imagePath, err := h.imageFromForm(c, "celebration-edit")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid image upload",
			"error":   err.Error(),
		})
	}

	var extraData map[string]any
	if req.ExtraData != "" {
		if err := json.Unmarshal([]byte(req.ExtraData), &extraData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "extraData must be a JSON object",
				"error":   err.Error(),
			})
		}
	}

	request, err := h.service.Update(id, services.UpdateCelebrationInput{
		PartnerName:    req.PartnerName,
		Message:        req.Message,
		AffectionLevel: req.AffectionLevel,
		ImagePath:      imagePath,
		OccasionID:     req.OccasionID,
		DeleteImage:    req.DeleteImage == "true",
		ExtraData:      extraData,
	}, user)
	if err != nil {
		log.Printf("Error updating celebration request %s: %v", id, err)
		return respondServiceError(c, err)
	}

	return c.JSON(request)
}

// HandleDelete removes a request owned by the caller (or any, for admins).
func (h *CelebrationHandler) HandleDelete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id := c.Params("id")

	if err := h.service.Delete(id, user); err != nil {
		log.Printf("Error deleting celebration request %s: %v", id, err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Celebration request deleted",
	})
}

// HandleAdminGetAll returns every request in the system.
func (h *CelebrationHandler) HandleAdminGetAll(c *fiber.Ctx) error {
	requests, err := h.service.FindAllAdmin()
	if err != nil {
		log.Printf("Error getting all celebration requests: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// HandleAdminGetByUser returns every request owned by one user.
func (h *CelebrationHandler) HandleAdminGetByUser(c *fiber.Ctx) error {
	requests, err := h.service.FindAllByUserAdmin(c.Params("userId"))
	if err != nil {
		log.Printf("Error getting celebration requests by user: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// HandleAdminDelete removes any request by id.
func (h *CelebrationHandler) HandleAdminDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteAdmin(id); err != nil {
		log.Printf("Error deleting celebration request %s as admin: %v", id, err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Celebration request deleted",
	})
}

// imageFromForm reads the optional "image" multipart field, normalizes it, and
// stores it, returning the public path. A missing field returns (nil, nil).
func (h *CelebrationHandler) imageFromForm(c *fiber.Ctx, prefix string) (*string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, nil // no file uploaded
	}
	if fileHeader.Size > imaging.MaxUploadSize {
		return nil, fmt.Errorf("image exceeds the %d byte limit", imaging.MaxUploadSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded image: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded image: %w", err)
	}

	normalized, err := imaging.Normalize(raw)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%s-%d-%09d.jpg", prefix, time.Now().UnixMilli(), rand.Intn(1_000_000_000))
	path, err := h.service.UploadImage(normalized, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	return &path, nil
}
