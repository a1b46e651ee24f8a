package handler

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"go-stockbit/internal/metrics"
	"go-stockbit/internal/middleware"
	"go-stockbit/internal/service"
)

type InventoryHandler struct {
	service service.InventoryService
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewInventoryHandler(s service.InventoryService, m *metrics.Metrics, log *slog.Logger) *InventoryHandler {
	return &InventoryHandler{service: s, metrics: m, log: log}
}

// GET /api/v1/products
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": orEmpty(products)})
}

// GET /api/v1/products/:id
func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	product, err := h.service.GetProduct(middleware.CurrentUser(c).ID, id)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// POST /api/v1/products
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	product, err := h.service.CreateProduct(middleware.CurrentUser(c).ID, &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product added successfully!", "data": product})
}

// PUT /api/v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	var req service.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	product, err := h.service.UpdateProduct(middleware.CurrentUser(c).ID, id, &req)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated successfully!", "data": product})
}

// DELETE /api/v1/products/:id
func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	if err := h.service.DeleteProduct(middleware.CurrentUser(c).ID, id); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully!"})
}

// RecordSale sells units of a product
// POST /api/v1/products/:id/sales
func (h *InventoryHandler) RecordSale(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	sale, err := h.service.RecordSale(middleware.CurrentUser(c).ID, id, saleQuantity(c))
	if err != nil {
		return fail(c, h.log, err)
	}

	h.metrics.SalesRecorded.Inc()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sale recorded successfully!", "data": sale})
}

// saleQuantity returns the quantity exactly as the client sent it, so the
// service can reject anything that is not a positive whole number.
func saleQuantity(c *fiber.Ctx) string {
	if !c.Is("json") {
		return c.FormValue("quantity")
	}

	var body struct {
		Quantity json.RawMessage `json:"quantity"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return ""
	}
	return strings.Trim(string(body.Quantity), `"`)
}

// GET /api/v1/sales
func (h *InventoryHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.ListSales(middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": orEmpty(sales)})
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
