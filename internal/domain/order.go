package domain

import "time"

// Order is the aggregate for customer orders.
type Order struct {
	ID        string
	Customer  string
	Phone     string
	Address   string
	Type      FulfillmentType
	Status    OrderStatus
	Items     []OrderItem
	Total     float64
	Chat      []ChatMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID          string
	ProductID   int64
	ProductName string
	Quantity    int
	Price       float64
}

// ChatMessage belongs to exactly one order's transcript.
type ChatMessage struct {
	ID      string
	OrderID string
	Message string
	Sender  string
	SentAt  time.Time
}

// Chat sender tags. System messages are auto-inserted on status transitions.
const (
	ChatSenderUser     = "user"
	ChatSenderCustomer = "customer"
	ChatSenderSystem   = "system"
)

// CalculateTotal recomputes the order total from its items.
func (o *Order) CalculateTotal() {
	total := 0.0
	for _, item := range o.Items {
		total += item.Price * float64(item.Quantity)
	}
	o.Total = total
}
