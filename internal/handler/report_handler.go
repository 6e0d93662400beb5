package handler

import (
	"time"

	"go-minimarket-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetDashboard returns the operator dashboard aggregates
// GET /api/v1/reports/dashboard
func (h *ReportHandler) GetDashboard(c *fiber.Ctx) error {
	report, err := h.service.Dashboard()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build dashboard"})
	}
	return c.JSON(report)
}

// GetSalesByDate returns the per-day sales report
// GET /api/v1/reports/sales/:date (YYYY-MM-DD)
func (h *ReportHandler) GetSalesByDate(c *fiber.Ctx) error {
	date, err := time.ParseInLocation("2006-01-02", c.Params("date"), time.Local)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, use YYYY-MM-DD"})
	}

	report, err := h.service.SalesByDate(date)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build report"})
	}
	return c.JSON(report)
}
