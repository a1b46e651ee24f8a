package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"go-stockbit/internal/middleware"
	"go-stockbit/internal/service"
)

type SupplierHandler struct {
	service service.SupplierService
	log     *slog.Logger
}

func NewSupplierHandler(s service.SupplierService, log *slog.Logger) *SupplierHandler {
	return &SupplierHandler{service: s, log: log}
}

// GET /api/v1/suppliers
func (h *SupplierHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.ListSuppliers(middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": orEmpty(suppliers)})
}

// GET /api/v1/suppliers/:id
func (h *SupplierHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	supplier, err := h.service.GetSupplier(middleware.CurrentUser(c).ID, id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": supplier})
}

// POST /api/v1/suppliers
func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.SupplierRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	supplier, err := h.service.CreateSupplier(middleware.CurrentUser(c).ID, &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Supplier added successfully!", "data": supplier})
}

// PUT /api/v1/suppliers/:id
func (h *SupplierHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	var req service.SupplierRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	supplier, err := h.service.UpdateSupplier(middleware.CurrentUser(c).ID, id, &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier updated successfully!", "data": supplier})
}

// DELETE /api/v1/suppliers/:id
func (h *SupplierHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	if err := h.service.DeleteSupplier(middleware.CurrentUser(c).ID, id); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted successfully!"})
}
