package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/dto"
	"github.com/spec-kit/order-service/internal/service"
)

// CustomersHandler exposes the customer directory endpoints.
type CustomersHandler struct {
	customers *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customers *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{customers: customers}
}

// List handles GET /api/customers.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	customers, err := h.customers.ListCustomers(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.ToCustomerResponses(customers),
	})
}

// Get handles GET /api/customers/:id.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	customer, err := h.customers.GetCustomer(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.ToCustomerResponse(customer),
	})
}

// Create handles POST /api/customers.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	customer, err := h.customers.CreateCustomer(c.Context(), service.CustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.ToCustomerResponse(customer),
	})
}

// Update handles PUT /api/customers/:id.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	customer, err := h.customers.UpdateCustomer(c.Context(), id, service.CustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.ToCustomerResponse(customer),
	})
}

// Delete handles DELETE /api/customers/:id.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.customers.DeleteCustomer(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "customer deleted"},
	})
}
