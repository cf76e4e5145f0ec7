package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/dto"
	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/service"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// ChatHandler exposes the per-order chat endpoints.
type ChatHandler struct {
	orders *service.OrderService
}

// NewChatHandler constructs handler.
func NewChatHandler(orders *service.OrderService) *ChatHandler {
	return &ChatHandler{orders: orders}
}

// Send handles POST /api/chat/send.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.SendChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	msg, err := h.orders.AddChatMessage(c.Context(), req.OrderID, req.Message, principal.User.Username)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.ToChatMessageResponse(msg),
	})
}

// Messages handles GET /api/chat/messages/:orderId.
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	messages, err := h.orders.ChatMessages(c.Context(), c.Params("orderId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.ToChatMessageResponses(messages),
	})
}
