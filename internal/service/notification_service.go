package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/events"
)

// Broadcaster pushes a topic string to every live client connection.
type Broadcaster interface {
	Broadcast(topic string)
}

// NotificationService turns domain events into broadcast topics. Topics are
// plain hierarchical strings; the payload is the topic itself.
type NotificationService struct {
	dispatcher  events.Dispatcher
	broadcaster Broadcaster
	logger      *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, broadcaster Broadcaster, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher:  dispatcher,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOrderCreated, n.handleOrderCreated)
	n.dispatcher.Subscribe(events.EventOrderStatusChanged, n.handleOrderStatusChanged)
	n.dispatcher.Subscribe(events.EventOrderDeleted, n.handleOrderDeleted)
	n.dispatcher.Subscribe(events.EventChatMessageAdded, n.handleChatMessageAdded)
	n.dispatcher.Subscribe(events.EventProductChanged, n.handleProductChanged)
	n.dispatcher.Subscribe(events.EventCustomerChanged, n.handleCustomerChanged)
}

func (n *NotificationService) handleOrderCreated(_ context.Context, event events.Event) error {
	n.broadcast("/novo_pedidos/" + event.OrderID)
	n.broadcast("/pedidos")
	return nil
}

func (n *NotificationService) handleOrderStatusChanged(_ context.Context, event events.Event) error {
	if payload, ok := event.Payload.(events.OrderStatusChangedPayload); ok {
		n.broadcast("/status_pedidos/" + event.OrderID + "/" + capitalize(string(payload.NewStatus)))
	}
	n.broadcast("/chat/" + event.OrderID)
	n.broadcast("/pedidos")
	return nil
}

func (n *NotificationService) handleOrderDeleted(_ context.Context, event events.Event) error {
	n.broadcast("/pedidos")
	return nil
}

func (n *NotificationService) handleChatMessageAdded(_ context.Context, event events.Event) error {
	n.broadcast("/chat/" + event.OrderID)
	return nil
}

func (n *NotificationService) handleProductChanged(_ context.Context, event events.Event) error {
	n.broadcast("/produto")
	return nil
}

func (n *NotificationService) handleCustomerChanged(_ context.Context, event events.Event) error {
	n.broadcast("/clientes")
	return nil
}

func (n *NotificationService) broadcast(topic string) {
	if n.broadcaster == nil {
		return
	}
	n.logger.Debug("broadcast", zap.String("topic", topic))
	n.broadcaster.Broadcast(topic)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
