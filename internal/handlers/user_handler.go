package handlers

import (
	"log"

	"celebra/internal/middleware"
	"celebra/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the user management routes with the Fiber app.
// "/me" must come before "/:id" so it isn't captured as an id.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	userRoutes := router.Group("/users", authRequired)

	userRoutes.Delete("/me", h.HandleDeleteSelf)

	userRoutes.Get("/", middleware.AdminRequired(), h.HandleGetAll)
	userRoutes.Patch("/:id/status", middleware.AdminRequired(), h.HandleUpdateStatus)
	userRoutes.Patch("/:id/role", middleware.AdminRequired(), h.HandleUpdateRole)
	userRoutes.Patch("/:id/max-requests", middleware.AdminRequired(), h.HandleUpdateMaxRequests)
	userRoutes.Delete("/:id", middleware.AdminRequired(), h.HandleDelete)
}

// HandleGetAll returns every user with their owned-request counts.
func (h *UserHandler) HandleGetAll(c *fiber.Ctx) error {
	users, err := h.service.FindAll()
	if err != nil {
		log.Printf("Error getting all users: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// HandleUpdateStatus sets a user's status.
func (h *UserHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	user, err := h.service.UpdateStatus(c.Params("id"), req.Status, middleware.CurrentUser(c))
	if err != nil {
		log.Printf("Error updating user status: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// HandleUpdateRole sets a user's role.
func (h *UserHandler) HandleUpdateRole(c *fiber.Ctx) error {
	var req updateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	user, err := h.service.UpdateRole(c.Params("id"), req.Role, middleware.CurrentUser(c))
	if err != nil {
		log.Printf("Error updating user role: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

type updateMaxRequestsRequest struct {
	MaxRequests *int `json:"maxRequests" validate:"omitempty,gte=0"`
}

// HandleUpdateMaxRequests sets or clears (null = unlimited) a user's quota.
func (h *UserHandler) HandleUpdateMaxRequests(c *fiber.Ctx) error {
	var req updateMaxRequestsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	user, err := h.service.UpdateMaxRequests(c.Params("id"), req.MaxRequests)
	if err != nil {
		log.Printf("Error updating user max requests: %v", err)
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// HandleDeleteSelf deletes the caller's own account and everything it owns.
func (h *UserHandler) HandleDeleteSelf(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.service.DeleteSelf(user); err != nil {
		log.Printf("Error deleting own account %s: %v", user.ID, err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Account deleted",
	})
}

// HandleDelete deletes a user and everything they own.
func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Remove(c.Params("id"), middleware.CurrentUser(c)); err != nil {
		log.Printf("Error deleting user %s: %v", c.Params("id"), err)
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User deleted",
	})
}
