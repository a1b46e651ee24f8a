package handler

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"go-stockbit/internal/middleware"
	"go-stockbit/internal/report"
	"go-stockbit/internal/service"
)

type DashboardHandler struct {
	service service.ReportService
	log     *slog.Logger
}

func NewDashboardHandler(s service.ReportService, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{service: s, log: log}
}

// GetDashboard returns stock totals, low stock items and the latest sales
// GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	dash, err := h.service.Dashboard(middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": dash})
}

// GetReport returns the sales report. Premium figures are null for basic
// accounts.
// GET /api/v1/reports
func (h *DashboardHandler) GetReport(c *fiber.Ctx) error {
	r, err := h.service.Report(middleware.CurrentUser(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(fiber.Map{"data": r})
}

// ExportReport downloads the report as a PDF
// GET /api/v1/reports/export
func (h *DashboardHandler) ExportReport(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	r, err := h.service.Report(user)
	if err != nil {
		return fail(c, h.log, err)
	}

	var buf bytes.Buffer
	if err := report.WritePDF(&buf, user.BusinessName, r); err != nil {
		return fail(c, h.log, err)
	}

	c.Attachment(fmt.Sprintf("report-%s.pdf", r.GeneratedAt.Format("2006-01-02")))
	return c.Send(buf.Bytes())
}
