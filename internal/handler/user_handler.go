package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"go-stockbit/internal/middleware"
	"go-stockbit/internal/service"
)

// UserHandler serves the admin user management endpoints.
type UserHandler struct {
	adminService service.AdminService
	log          *slog.Logger
}

func NewUserHandler(adminService service.AdminService, log *slog.Logger) *UserHandler {
	return &UserHandler{adminService: adminService, log: log}
}

// GET /api/v1/admin/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers()
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": users})
}

// GET /api/v1/admin/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	user, err := h.adminService.GetUser(id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": user})
}

// PUT /api/v1/admin/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	var req service.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	user, err := h.adminService.UpdateUser(id, &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "User updated successfully!", "data": user.ToResponse()})
}

// DELETE /api/v1/admin/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	if err := h.adminService.DeleteUser(middleware.CurrentUser(c), id); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully!"})
}

// POST /api/v1/admin/users/:id/cancel-subscription
func (h *UserHandler) CancelSubscription(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	user, err := h.adminService.CancelSubscription(id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Subscription cancelled.", "data": user.ToResponse()})
}
