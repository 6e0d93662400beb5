package handler

import (
	"errors"

	"go-minimarket-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TillHandler struct {
	tillService service.TillService
}

func NewTillHandler(tillService service.TillService) *TillHandler {
	return &TillHandler{tillService: tillService}
}

// POST /api/v1/till/open
func (h *TillHandler) Open(c *fiber.Ctx) error {
	var req service.OpenTillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	session, err := h.tillService.Open(&req, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrTillAlreadyOpen) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Till opened", "data": session})
}

// POST /api/v1/till/:id/close
func (h *TillHandler) Close(c *fiber.Ctx) error {
	tillID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid till ID"})
	}

	var req service.CloseTillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	session, err := h.tillService.Close(tillID, &req, getUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTillNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrTillClosed):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Till closed", "data": session})
}

// GET /api/v1/till/current
func (h *TillHandler) Current(c *fiber.Ctx) error {
	session, err := h.tillService.Current()
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "No open till session"})
	}
	return c.JSON(session)
}

// GET /api/v1/till
func (h *TillHandler) List(c *fiber.Ctx) error {
	sessions, err := h.tillService.List()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sessions)
}

// GET /api/v1/till/:id/summary
func (h *TillHandler) Summary(c *fiber.Ctx) error {
	tillID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid till ID"})
	}

	summary, err := h.tillService.Summary(tillID)
	if err != nil {
		if errors.Is(err, service.ErrTillNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build till summary"})
	}
	return c.JSON(summary)
}

// POST /api/v1/till/:id/outflows
func (h *TillHandler) AddOutflow(c *fiber.Ctx) error {
	tillID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid till ID"})
	}

	var req service.OutflowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	outflow, err := h.tillService.AddOutflow(tillID, &req, getUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTillNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrTillClosed):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Outflow recorded", "data": outflow})
}
