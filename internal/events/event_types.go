package events

import (
	"time"

	"github.com/spec-kit/order-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated       EventType = "order_created"
	EventOrderStatusChanged EventType = "order_status_changed"
	EventOrderDeleted       EventType = "order_deleted"
	EventChatMessageAdded   EventType = "chat_message_added"
	EventProductChanged     EventType = "product_changed"
	EventCustomerChanged    EventType = "customer_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OrderID   string      `json:"order_id,omitempty"`
	Subject   string      `json:"subject,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	Customer string                 `json:"customer"`
	Type     domain.FulfillmentType `json:"type"`
	Total    float64                `json:"total"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}

// ChatMessageAddedPayload payload.
type ChatMessageAddedPayload struct {
	MessageID string `json:"message_id"`
	Sender    string `json:"sender"`
}

// ProductChangedPayload payload.
type ProductChangedPayload struct {
	ProductID int64  `json:"product_id"`
	Action    string `json:"action"`
}

// CustomerChangedPayload payload.
type CustomerChangedPayload struct {
	CustomerID int64  `json:"customer_id"`
	Action     string `json:"action"`
}
