package handler

import (
	"go-minimarket-pos/internal/model"
	"go-minimarket-pos/internal/repository"
	"go-minimarket-pos/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	repo repository.CustomerRepository
}

func NewCustomerHandler(repo repository.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{repo: repo}
}

func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.repo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch customers"})
	}
	return c.JSON(customers)
}

// GetCustomer includes the purchase summary used by the accounts screen
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	customerID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	customer, err := h.repo.FindByID(customerID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Customer not found"})
	}

	units, paid, err := h.repo.PurchaseSummary(customerID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch purchase summary"})
	}

	return c.JSON(fiber.Map{
		"customer":     customer,
		"units_bought": units,
		"amount_paid":  paid,
	})
}

func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var customer model.Customer
	if err := c.BodyParser(&customer); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := validator.FirstError(&customer); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	customer.CreatedBy = getUserID(c)
	customer.UpdatedBy = getUserID(c)

	if err := h.repo.Create(&customer); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create customer"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	customerID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	existing, err := h.repo.FindByID(customerID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Customer not found"})
	}

	var req model.Customer
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := validator.FirstError(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.Kind = req.Kind
	existing.Team = req.Team
	existing.Color = req.Color
	existing.UpdatedBy = getUserID(c)

	if err := h.repo.Update(existing); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update customer"})
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": existing})
}

// DeleteCustomer removes the customer; their sales survive with a null
// customer reference.
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	customerID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	if _, err := h.repo.FindByID(customerID); err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Customer not found"})
	}

	if err := h.repo.Delete(customerID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete customer"})
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}
