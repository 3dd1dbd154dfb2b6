package handlers

import (
	"log"

	"celebra/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OccasionHandler handles HTTP requests for the occasion catalog.
type OccasionHandler struct {
	service *services.OccasionService
}

// NewOccasionHandler creates a new OccasionHandler.
func NewOccasionHandler(service *services.OccasionService) *OccasionHandler {
	return &OccasionHandler{
		service: service,
	}
}

// RegisterRoutes registers the occasion routes with the Fiber app. Both are
// public reads.
func (h *OccasionHandler) RegisterRoutes(router fiber.Router) {
	occasionRoutes := router.Group("/occasions")
	occasionRoutes.Get("/", h.HandleGetAll)
	occasionRoutes.Get("/:slug", h.HandleGetBySlug)
}

// HandleGetAll returns the active occasions in display order.
func (h *OccasionHandler) HandleGetAll(c *fiber.Ctx) error {
	occasions, err := h.service.FindAll()
	if err != nil {
		log.Printf("Error getting occasions: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(occasions)
}

// HandleGetBySlug returns one active occasion by slug.
func (h *OccasionHandler) HandleGetBySlug(c *fiber.Ctx) error {
	occasion, err := h.service.FindBySlug(c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(occasion)
}
