package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// OrderService coordinates order workflows and owns the status state machine.
type OrderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	dispatcher events.Dispatcher

	ids orderIDGenerator

	// locks serializes status transitions per order id, so two concurrent
	// PATCH calls advance one step each instead of racing the read-modify-write.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// OrderDependencies bundles repositories for the order service.
type OrderDependencies struct {
	OrderRepo   repository.OrderRepository
	ProductRepo repository.ProductRepository
	Dispatcher  events.Dispatcher
}

// OrderItemInput describes one requested line item.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

// OrderCreateInput describes order creation payload.
type OrderCreateInput struct {
	Customer string
	Phone    string
	Address  string
	Type     string
	Items    []OrderItemInput
}

// OrderUpdateInput describes mutable order fields; nil fields are untouched.
type OrderUpdateInput struct {
	Customer *string
	Phone    *string
	Address  *string
	Type     *string
	Items    []OrderItemInput
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	return &OrderService{
		orders:     deps.OrderRepo,
		products:   deps.ProductRepo,
		dispatcher: deps.Dispatcher,
		ids:        orderIDGenerator{counts: deps.OrderRepo},
		locks:      make(map[string]*sync.Mutex),
	}
}

// CreateOrder validates and persists a new order in the initial status.
func (s *OrderService) CreateOrder(ctx context.Context, input OrderCreateInput) (*domain.Order, error) {
	customer := strings.TrimSpace(input.Customer)
	if customer == "" {
		return nil, apperrors.NewValidationError("customer name is required", nil)
	}
	fulfillment, ok := domain.ParseFulfillmentType(input.Type)
	if !ok {
		return nil, apperrors.NewValidationError("invalid fulfillment type", map[string]any{"type": input.Type})
	}
	if fulfillment == domain.FulfillmentDelivery && strings.TrimSpace(input.Address) == "" {
		return nil, apperrors.NewValidationError("address is required for delivery orders", nil)
	}

	items, err := s.resolveItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	id, err := s.ids.next(ctx)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:       id,
		Customer: customer,
		Phone:    strings.TrimSpace(input.Phone),
		Address:  strings.TrimSpace(input.Address),
		Type:     fulfillment,
		Status:   domain.StatusInService,
		Items:    items,
	}
	order.CalculateTotal()

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderCreated,
		OrderID: order.ID,
		Payload: events.OrderCreatedPayload{
			Customer: order.Customer,
			Type:     order.Type,
			Total:    order.Total,
		},
	})
	return order, nil
}

// ListOrders returns today's orders plus older unfinished ones.
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListCurrent(ctx)
}

// GetOrder fetches a single order with items and chat transcript.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", map[string]any{"id": id})
		}
		return nil, err
	}
	return order, nil
}

// UpdateOrder applies partial updates to an order's editable fields.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, input OrderUpdateInput) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Customer != nil {
		order.Customer = strings.TrimSpace(*input.Customer)
	}
	if input.Phone != nil {
		order.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		order.Address = strings.TrimSpace(*input.Address)
	}
	if input.Type != nil {
		fulfillment, ok := domain.ParseFulfillmentType(*input.Type)
		if !ok {
			return nil, apperrors.NewValidationError("invalid fulfillment type", map[string]any{"type": *input.Type})
		}
		order.Type = fulfillment
	}
	if input.Items != nil {
		items, err := s.resolveItems(ctx, input.Items)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}
	order.CalculateTotal()

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ChangeStatus applies the transition rules for a requested target status.
// Callers without the arbitrary-status capability always advance one step;
// the requested target is honored only for privileged callers. Pickup orders
// skip the collected state entirely.
func (s *OrderService) ChangeStatus(ctx context.Context, id, requested string, actor *domain.User) (*domain.Order, error) {
	var requestedStatus domain.OrderStatus
	privileged := actor != nil && actor.Permissions.Granted(domain.PermSelectAnyStatus)
	if privileged {
		parsed, ok := domain.ParseOrderStatus(requested)
		if !ok {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": requested})
		}
		requestedStatus = parsed
	}

	lock := s.orderLock(id)
	lock.Lock()
	defer lock.Unlock()

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, apperrors.NewValidationError("order already completed", map[string]any{"id": id})
	}

	target := requestedStatus
	if !privileged {
		target = order.Status.Next()
	}
	// Pickup orders have no collection leg; skip straight past it.
	if order.Type == domain.FulfillmentPickup && target == domain.StatusCollected {
		target = target.Next()
	}

	oldStatus := order.Status
	if err := s.orders.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}

	annotation := &domain.ChatMessage{
		OrderID: order.ID,
		Message: fmt.Sprintf("Status alterado de '%s' para '%s'", oldStatus.Label(), target.Label()),
		Sender:  domain.ChatSenderSystem,
		SentAt:  time.Now(),
	}
	if err := s.orders.AppendChatMessage(ctx, annotation); err != nil {
		return nil, err
	}

	order.Status = target
	order.UpdatedAt = annotation.SentAt
	order.Chat = append(order.Chat, *annotation)

	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderStatusChanged,
		OrderID: order.ID,
		Payload: events.OrderStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: target,
		},
	})
	return order, nil
}

// DeleteOrder removes an order; permitted only while in the initial status.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	lock := s.orderLock(id)
	lock.Lock()
	defer lock.Unlock()

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != domain.StatusInService {
		return apperrors.NewValidationError("only orders in service can be deleted", map[string]any{
			"id":     id,
			"status": order.Status,
		})
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderDeleted,
		OrderID: id,
	})
	return nil
}

// AddChatMessage appends a message to an order's transcript.
func (s *OrderService) AddChatMessage(ctx context.Context, orderID, message, sender string) (*domain.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message is required", nil)
	}
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		OrderID: orderID,
		Message: message,
		Sender:  sender,
		SentAt:  time.Now(),
	}
	if err := s.orders.AppendChatMessage(ctx, msg); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventChatMessageAdded,
		OrderID: orderID,
		Payload: events.ChatMessageAddedPayload{
			MessageID: msg.ID,
			Sender:    sender,
		},
	})
	return msg, nil
}

// ChatMessages returns an order's transcript.
func (s *OrderService) ChatMessages(ctx context.Context, orderID string) ([]domain.ChatMessage, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.orders.ChatMessages(ctx, orderID)
}

func (s *OrderService) resolveItems(ctx context.Context, inputs []OrderItemInput) ([]domain.OrderItem, error) {
	if len(inputs) == 0 {
		return nil, apperrors.NewValidationError("order must have at least one item", nil)
	}
	items := make([]domain.OrderItem, 0, len(inputs))
	for _, input := range inputs {
		if input.Quantity <= 0 {
			return nil, apperrors.NewValidationError("item quantity must be positive", map[string]any{
				"product_id": input.ProductID,
			})
		}
		product, err := s.products.GetByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("product not found", map[string]any{
					"product_id": input.ProductID,
				})
			}
			return nil, err
		}
		if !product.Active {
			return nil, apperrors.NewValidationError("product inactive", map[string]any{
				"product_id": product.ID,
			})
		}
		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    input.Quantity,
			Price:       product.Price,
		})
	}
	return items, nil
}

func (s *OrderService) orderLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *OrderService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

type createdCounter interface {
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

// orderIDGenerator produces date-prefixed sequence numbers such as
// "202609010042". The counter reseeds from storage at each day rollover.
type orderIDGenerator struct {
	counts createdCounter

	mu      sync.Mutex
	day     string
	counter int
}

func (g *orderIDGenerator) next(ctx context.Context) (string, error) {
	now := time.Now()
	today := now.Format("20060102")

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.day != today {
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		count, err := g.counts.CountCreatedSince(ctx, startOfDay)
		if err != nil {
			return "", err
		}
		g.day = today
		g.counter = count
	}
	g.counter++
	return fmt.Sprintf("%s%04d", today, g.counter), nil
}
