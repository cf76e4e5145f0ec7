package dto

import (
	"time"

	"github.com/spec-kit/order-service/internal/domain"
)

// CreateOrderRequest payload.
type CreateOrderRequest struct {
	Customer string             `json:"customer"`
	Phone    string             `json:"phone"`
	Address  string             `json:"address"`
	Type     string             `json:"type"`
	Items    []OrderItemRequest `json:"items"`
}

// UpdateOrderRequest payload; nil fields are untouched.
type UpdateOrderRequest struct {
	Customer *string            `json:"customer"`
	Phone    *string            `json:"phone"`
	Address  *string            `json:"address"`
	Type     *string            `json:"type"`
	Items    []OrderItemRequest `json:"items"`
}

// OrderItemRequest describes one requested line item.
type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// UpdateStatusRequest payload for the status PATCH.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// OrderResponse full order representation.
type OrderResponse struct {
	ID        string                 `json:"id"`
	Customer  string                 `json:"customer"`
	Phone     string                 `json:"phone"`
	Address   string                 `json:"address"`
	Type      domain.FulfillmentType `json:"type"`
	Status    domain.OrderStatus     `json:"status"`
	Items     []OrderItemResponse    `json:"items"`
	Total     float64                `json:"total"`
	Chat      []ChatMessageResponse  `json:"chat,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// OrderItemResponse one order line.
type OrderItemResponse struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// ChatMessageResponse one transcript entry.
type ChatMessageResponse struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Sender  string    `json:"sender"`
	SentAt  time.Time `json:"sent_at"`
}

// ToOrderResponse maps a domain order.
func ToOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return OrderResponse{
		ID:        order.ID,
		Customer:  order.Customer,
		Phone:     order.Phone,
		Address:   order.Address,
		Type:      order.Type,
		Status:    order.Status,
		Items:     items,
		Total:     order.Total,
		Chat:      ToChatMessageResponses(order.Chat),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

// ToOrderResponses maps a slice; listings omit chat transcripts.
func ToOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out
}

// ToChatMessageResponse maps a single transcript entry.
func ToChatMessageResponse(msg *domain.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:      msg.ID,
		Message: msg.Message,
		Sender:  msg.Sender,
		SentAt:  msg.SentAt,
	}
}

// ToChatMessageResponses maps a transcript.
func ToChatMessageResponses(messages []domain.ChatMessage) []ChatMessageResponse {
	if len(messages) == 0 {
		return nil
	}
	out := make([]ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, ChatMessageResponse{
			ID:      msg.ID,
			Message: msg.Message,
			Sender:  msg.Sender,
			SentAt:  msg.SentAt,
		})
	}
	return out
}

// SendChatMessageRequest payload.
type SendChatMessageRequest struct {
	OrderID string `json:"order_id"`
	Message string `json:"message"`
}
