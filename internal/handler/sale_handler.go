package handler

import (
	"errors"

	"go-minimarket-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// statusForSaleError maps the validation taxonomy onto HTTP codes
func statusForSaleError(err error) int {
	switch {
	case errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCustomerNotFound):
		return 404
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrMissingPayment),
		errors.Is(err, service.ErrUnexpectedPayment),
		errors.Is(err, service.ErrNoCustomer),
		errors.Is(err, service.ErrInvalidQuantity):
		return 422
	default:
		return 400
	}
}

// POST /api/v1/sales
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.CreateSale(&req, getUserID(c))
	if err != nil {
		return c.Status(statusForSaleError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale created", "data": sale})
}

// GET /api/v1/sales
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.ListSales()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.service.GetSale(saleID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Sale not found"})
	}
	return c.JSON(sale)
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// POST /api/v1/sales/:id/items
func (h *SaleHandler) AddItem(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	productID, err := parseUUID(req.ProductID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	item, err := h.service.AddItem(saleID, productID, req.Quantity, getUserID(c))
	if err != nil {
		return c.Status(statusForSaleError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Item added", "data": item})
}

// DELETE /api/v1/sales/items/:itemId
func (h *SaleHandler) RemoveItem(c *fiber.Ctx) error {
	itemID, err := parseUUID(c.Params("itemId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	if err := h.service.RemoveItem(itemID, getUserID(c)); err != nil {
		return c.Status(statusForSaleError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Item removed"})
}

// PUT /api/v1/sales/:id/settle
func (h *SaleHandler) SettleSale(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	var req service.SettleSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.SettleSale(saleID, &req, getUserID(c))
	if err != nil {
		return c.Status(statusForSaleError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Sale settled", "data": sale})
}

// DELETE /api/v1/sales/:id
func (h *SaleHandler) DeleteSale(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	if err := h.service.DeleteSale(saleID, getUserID(c)); err != nil {
		return c.Status(statusForSaleError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Sale deleted"})
}

type markPaidRequest struct {
	SaleIDs []string `json:"sale_ids"`
}

// POST /api/v1/sales/mark-paid — bulk administrative override
func (h *SaleHandler) MarkPaid(c *fiber.Ctx) error {
	var req markPaidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	ids := make([]uuid.UUID, 0, len(req.SaleIDs))
	for _, raw := range req.SaleIDs {
		id, err := parseUUID(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID: " + raw})
		}
		ids = append(ids, id)
	}

	updated, err := h.service.MarkPaid(ids, getUserID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to mark sales as paid"})
	}
	return c.JSON(fiber.Map{"message": "Sales marked as paid", "updated": updated})
}
