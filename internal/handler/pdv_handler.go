package handler

import (
	"errors"

	"go-minimarket-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PDVHandler struct {
	pdvService service.PDVService
}

func NewPDVHandler(pdvService service.PDVService) *PDVHandler {
	return &PDVHandler{pdvService: pdvService}
}

type scanRequest struct {
	Barcode string `json:"barcode"`
}

// Scan handles one barcode read from the register scanner
// POST /api/v1/pdv/scan
func (h *PDVHandler) Scan(c *fiber.Ctx) error {
	var req scanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "Invalid JSON"})
	}
	// Scanner guns may also hit this as a GET-style query
	if req.Barcode == "" {
		req.Barcode = c.Query("barcode")
	}
	if req.Barcode == "" {
		return c.Status(400).JSON(fiber.Map{"ok": false, "error": "Barcode is required"})
	}

	userID, err := parseUUID(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"ok": false, "error": "Unauthorized"})
	}

	result, err := h.pdvService.Scan(userID, req.Barcode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			return c.Status(404).JSON(fiber.Map{"ok": false, "error": "Product not found"})
		case errors.Is(err, service.ErrInsufficientStock):
			return c.Status(422).JSON(fiber.Map{"ok": false, "error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"ok": false, "error": "Scan failed"})
	}

	return c.JSON(fiber.Map{
		"ok":       true,
		"product":  result.Product,
		"quantity": result.Quantity,
		"subtotal": result.Subtotal,
		"sale_id":  result.SaleID,
		"total":    result.Total,
	})
}

// CurrentSale returns the operator's in-progress ticket
// GET /api/v1/pdv/sale
func (h *PDVHandler) CurrentSale(c *fiber.Ctx) error {
	userID, err := parseUUID(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"ok": false, "error": "Unauthorized"})
	}

	sale, err := h.pdvService.CurrentSale(userID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"ok": false, "error": "No sale in progress"})
	}
	return c.JSON(fiber.Map{"ok": true, "sale": sale})
}

// FinishSession closes the operator's scanner session after settlement
// POST /api/v1/pdv/finish
func (h *PDVHandler) FinishSession(c *fiber.Ctx) error {
	userID, err := parseUUID(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"ok": false, "error": "Unauthorized"})
	}

	if err := h.pdvService.FinishSession(userID); err != nil {
		return c.Status(404).JSON(fiber.Map{"ok": false, "error": "No active session"})
	}
	return c.JSON(fiber.Map{"ok": true, "message": "Session finished"})
}
