package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"go-stockbit/internal/metrics"
	"go-stockbit/internal/middleware"
	"go-stockbit/internal/service"
)

const screenshotField = "screenshot"

type SubscriptionHandler struct {
	service service.SubscriptionService
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewSubscriptionHandler(s service.SubscriptionService, m *metrics.Metrics, log *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{service: s, metrics: m, log: log}
}

// GET /api/v1/subscription
func (h *SubscriptionHandler) GetStatus(c *fiber.Ctx) error {
	status, err := h.service.Status(middleware.CurrentUser(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": status})
}

// GET /api/v1/subscription/payments
func (h *SubscriptionHandler) GetPayments(c *fiber.Ctx) error {
	payments, err := h.service.ListMyPayments(middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": payments})
}

// SubmitPayment files a payment for review. The screenshot is an optional
// multipart file.
// POST /api/v1/subscription/payments
func (h *SubscriptionHandler) SubmitPayment(c *fiber.Ctx) error {
	var req service.PaymentRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	var upload *service.Upload
	if fh, err := c.FormFile(screenshotField); err == nil {
		f, err := fh.Open()
		if err != nil {
			return fail(c, h.log, err)
		}
		defer f.Close()
		upload = &service.Upload{Filename: fh.Filename, Size: fh.Size, Body: f}
	}

	payment, err := h.service.SubmitPayment(c.UserContext(), middleware.CurrentUser(c), &req, upload)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment submitted! We will verify it shortly.",
		"data":    payment,
	})
}

// GetScreenshot streams an uploaded screenshot to its owner or an admin
// GET /api/v1/uploads/:filename
func (h *SubscriptionHandler) GetScreenshot(c *fiber.Ctx) error {
	rc, contentType, err := h.service.OpenScreenshot(c.UserContext(), middleware.CurrentUser(c), c.Params("filename"))
	if err != nil {
		return fail(c, h.log, err)
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.SendStream(rc)
}

// GET /api/v1/admin/payments
func (h *SubscriptionHandler) GetPendingPayments(c *fiber.Ctx) error {
	payments, err := h.service.ListPendingPayments()
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": payments})
}

// POST /api/v1/admin/payments/:id/approve
func (h *SubscriptionHandler) ApprovePayment(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	payment, err := h.service.ApprovePayment(middleware.CurrentUser(c), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	h.metrics.PaymentsReviewed.WithLabelValues(string(payment.Status)).Inc()
	return c.JSON(fiber.Map{"message": "Payment approved and premium activated!", "data": payment})
}

// POST /api/v1/admin/payments/:id/reject
func (h *SubscriptionHandler) RejectPayment(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	payment, err := h.service.RejectPayment(middleware.CurrentUser(c), id)
	if err != nil {
		return fail(c, h.log, err)
	}
	h.metrics.PaymentsReviewed.WithLabelValues(string(payment.Status)).Inc()
	return c.JSON(fiber.Map{"message": "Payment rejected.", "data": payment})
}
