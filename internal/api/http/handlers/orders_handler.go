package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/dto"
	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/service"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// OrdersHandler exposes the order lifecycle endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

func toItemInputs(items []dto.OrderItemRequest) []service.OrderItemInput {
	if len(items) == 0 {
		return nil
	}
	out := make([]service.OrderItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return out
}

// List handles GET /api/orders. Returns today's orders plus any order
// that has not reached the terminal status yet.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	orders, err := h.orders.ListOrders(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.ToOrderResponses(orders),
	})
}

// Get handles GET /api/orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	order, err := h.orders.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.ToOrderResponse(order),
	})
}

// Create handles POST /api/orders.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.orders.CreateOrder(c.Context(), service.OrderCreateInput{
		Customer: req.Customer,
		Phone:    req.Phone,
		Address:  req.Address,
		Type:     req.Type,
		Items:    toItemInputs(req.Items),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.ToOrderResponse(order),
	})
}

// Update handles PATCH /api/orders/:id.
func (h *OrdersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.orders.UpdateOrder(c.Context(), c.Params("id"), service.OrderUpdateInput{
		Customer: req.Customer,
		Phone:    req.Phone,
		Address:  req.Address,
		Type:     req.Type,
		Items:    toItemInputs(req.Items),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.ToOrderResponse(order),
	})
}

// UpdateStatus handles PATCH /api/orders/:id/status. The requested
// status is only honored for principals holding the status-selection
// permission; everyone else advances a single step.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.orders.ChangeStatus(c.Context(), c.Params("id"), req.Status, principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.ToOrderResponse(order),
	})
}

// Delete handles DELETE /api/orders/:id.
func (h *OrdersHandler) Delete(c *fiber.Ctx) error {
	if err := h.orders.DeleteOrder(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "order deleted"},
	})
}
