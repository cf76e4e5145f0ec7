package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	chat   map[string][]domain.ChatMessage
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[string]*domain.Order),
		chat:   make(map[string][]domain.ChatMessage),
	}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[order.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *order
	clone.UpdatedAt = time.Now()
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return pgx.ErrNoRows
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *order
	clone.Chat = append([]domain.ChatMessage(nil), f.chat[id]...)
	return &clone, nil
}

func (f *fakeOrderRepo) ListCurrent(_ context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Order, 0, len(f.orders))
	for _, order := range f.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.orders, id)
	delete(f.chat, id)
	return nil
}

func (f *fakeOrderRepo) AppendChatMessage(_ context.Context, msg *domain.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.ID == "" {
		msg.ID = fmt.Sprintf("msg-%d", len(f.chat[msg.OrderID])+1)
	}
	f.chat[msg.OrderID] = append(f.chat[msg.OrderID], *msg)
	return nil
}

func (f *fakeOrderRepo) ChatMessages(_ context.Context, orderID string) ([]domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ChatMessage(nil), f.chat[orderID]...), nil
}

func (f *fakeOrderRepo) CountCreatedSince(_ context.Context, _ time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders), nil
}

type fakeProductRepo struct {
	products map[int64]*domain.Product
}

func (f *fakeProductRepo) Create(_ context.Context, _ *domain.Product) error { return nil }
func (f *fakeProductRepo) Update(_ context.Context, _ *domain.Product) error { return nil }
func (f *fakeProductRepo) List(_ context.Context) ([]domain.Product, error)  { return nil, nil }
func (f *fakeProductRepo) Delete(_ context.Context, _ int64) error           { return nil }
func (f *fakeProductRepo) SetActive(_ context.Context, _ int64, _ bool) error {
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *product
	return &clone, nil
}

func newOrderServiceForTest() (*OrderService, *fakeOrderRepo) {
	orders := newFakeOrderRepo()
	products := &fakeProductRepo{products: map[int64]*domain.Product{
		1: {ID: 1, Name: "Burger", Price: 25.0, Active: true},
		2: {ID: 2, Name: "Fries", Price: 10.0, Active: true},
		3: {ID: 3, Name: "Old Combo", Price: 30.0, Active: false},
	}}
	svc := NewOrderService(OrderDependencies{
		OrderRepo:   orders,
		ProductRepo: products,
		Dispatcher:  events.NewInMemoryDispatcher(),
	})
	return svc, orders
}

func staffUser(perms ...domain.Permission) *domain.User {
	permissions := make(domain.PermissionMap)
	for _, perm := range perms {
		permissions[perm] = true
	}
	return &domain.User{ID: 2, Username: "atendente", Permissions: permissions, Active: true}
}

func createTestOrder(t *testing.T, svc *OrderService, fulfillment string) *domain.Order {
	t.Helper()
	order, err := svc.CreateOrder(context.Background(), OrderCreateInput{
		Customer: "João",
		Phone:    "11999990000",
		Address:  "Rua A, 10",
		Type:     fulfillment,
		Items:    []OrderItemInput{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestCreateOrderStartsInService(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	order := createTestOrder(t, svc, "delivery")

	if order.Status != domain.StatusInService {
		t.Fatalf("new order status = %s", order.Status)
	}
	if order.Total != 50.0 {
		t.Fatalf("total = %v, expected 50", order.Total)
	}
	if len(order.ID) != 12 {
		t.Fatalf("order id %q, expected yyyyMMdd + 4-digit counter", order.ID)
	}
	if !strings.HasPrefix(order.ID, time.Now().Format("20060102")) {
		t.Fatalf("order id %q not prefixed with today's date", order.ID)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	ctx := context.Background()

	cases := []struct {
		name  string
		input OrderCreateInput
	}{
		{"missing customer", OrderCreateInput{Type: "pickup", Items: []OrderItemInput{{ProductID: 1, Quantity: 1}}}},
		{"bad type", OrderCreateInput{Customer: "Ana", Type: "teleport", Items: []OrderItemInput{{ProductID: 1, Quantity: 1}}}},
		{"delivery without address", OrderCreateInput{Customer: "Ana", Type: "delivery", Items: []OrderItemInput{{ProductID: 1, Quantity: 1}}}},
		{"no items", OrderCreateInput{Customer: "Ana", Type: "pickup"}},
		{"unknown product", OrderCreateInput{Customer: "Ana", Type: "pickup", Items: []OrderItemInput{{ProductID: 99, Quantity: 1}}}},
		{"inactive product", OrderCreateInput{Customer: "Ana", Type: "pickup", Items: []OrderItemInput{{ProductID: 3, Quantity: 1}}}},
		{"zero quantity", OrderCreateInput{Customer: "Ana", Type: "pickup", Items: []OrderItemInput{{ProductID: 1, Quantity: 0}}}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateOrder(ctx, tc.input); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestChangeStatusDefaultAdvancesOneStep(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	order := createTestOrder(t, svc, "delivery")
	actor := staffUser(domain.PermChangeOrderStatus)

	// The requested status is ignored without the selection capability.
	updated, err := svc.ChangeStatus(context.Background(), order.ID, string(domain.StatusCompleted), actor)
	if err != nil {
		t.Fatalf("change status: %v", err)
	}
	if updated.Status != domain.StatusAwaitingPayment {
		t.Fatalf("status = %s, expected single-step advance to %s", updated.Status, domain.StatusAwaitingPayment)
	}
}

func TestChangeStatusPrivilegedJumps(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	order := createTestOrder(t, svc, "delivery")
	actor := staffUser(domain.PermChangeOrderStatus, domain.PermSelectAnyStatus)

	updated, err := svc.ChangeStatus(context.Background(), order.ID, string(domain.StatusReady), actor)
	if err != nil {
		t.Fatalf("change status: %v", err)
	}
	if updated.Status != domain.StatusReady {
		t.Fatalf("status = %s, expected %s", updated.Status, domain.StatusReady)
	}

	// Backward jumps are allowed for privileged callers.
	updated, err = svc.ChangeStatus(context.Background(), order.ID, string(domain.StatusPlaced), actor)
	if err != nil {
		t.Fatalf("backward jump: %v", err)
	}
	if updated.Status != domain.StatusPlaced {
		t.Fatalf("status = %s, expected %s", updated.Status, domain.StatusPlaced)
	}
}

func TestChangeStatusPrivilegedUnknownStatus(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	order := createTestOrder(t, svc, "delivery")
	actor := staffUser(domain.PermChangeOrderStatus, domain.PermSelectAnyStatus)

	if _, err := svc.ChangeStatus(context.Background(), order.ID, "cancelado", actor); err == nil {
		t.Fatal("expected validation error for unknown status")
	}
}

func TestChangeStatusPickupSkipsCollected(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	order := createTestOrder(t, svc, "pickup")
	privileged := staffUser(domain.PermChangeOrderStatus, domain.PermSelectAnyStatus)

	if _, err := svc.ChangeStatus(context.Background(), order.ID, string(domain.StatusReady), privileged); err != nil {
		t.Fatalf("jump to ready: %v", err)
	}

	// A plain advance from ready would land on collected; pickup orders
	// finish directly instead.
	unprivileged := staffUser(domain.PermChangeOrderStatus)
	updated, err := svc.ChangeStatus(context.Background(), order.ID, "", unprivileged)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if updated.Status != domain.StatusCompleted {
		t.Fatalf("status = %s, expected %s", updated.Status, domain.StatusCompleted)
	}
}

func TestChangeStatusPickupSkipsCollectedOnPrivilegedRequest(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	order := createTestOrder(t, svc, "pickup")
	actor := staffUser(domain.PermChangeOrderStatus, domain.PermSelectAnyStatus)

	updated, err := svc.ChangeStatus(context.Background(), order.ID, string(domain.StatusCollected), actor)
	if err != nil {
		t.Fatalf("change status: %v", err)
	}
	if updated.Status != domain.StatusCompleted {
		t.Fatalf("status = %s, expected pickup to skip %s", updated.Status, domain.StatusCollected)
	}
}

func TestChangeStatusTerminalRejected(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	order := createTestOrder(t, svc, "delivery")
	actor := staffUser(domain.PermChangeOrderStatus, domain.PermSelectAnyStatus)

	if _, err := svc.ChangeStatus(context.Background(), order.ID, string(domain.StatusCompleted), actor); err != nil {
		t.Fatalf("jump to completed: %v", err)
	}
	if _, err := svc.ChangeStatus(context.Background(), order.ID, string(domain.StatusInService), actor); err == nil {
		t.Fatal("expected error transitioning out of terminal status")
	}
}

func TestChangeStatusWritesChatAnnotation(t *testing.T) {
	svc, repo := newOrderServiceForTest()
	order := createTestOrder(t, svc, "delivery")
	actor := staffUser(domain.PermChangeOrderStatus)

	if _, err := svc.ChangeStatus(context.Background(), order.ID, "", actor); err != nil {
		t.Fatalf("change status: %v", err)
	}

	messages, err := repo.ChatMessages(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("chat messages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(messages))
	}
	annotation := messages[0]
	if annotation.Sender != domain.ChatSenderSystem {
		t.Fatalf("annotation sender = %q", annotation.Sender)
	}
	want := "Status alterado de 'Em Atendimento' para 'Aguardando Pagamento'"
	if annotation.Message != want {
		t.Fatalf("annotation = %q, expected %q", annotation.Message, want)
	}
}

func TestConcurrentAdvancesOneStepEach(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	order := createTestOrder(t, svc, "delivery")
	actor := staffUser(domain.PermChangeOrderStatus)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ChangeStatus(context.Background(), order.ID, "", actor); err != nil {
				t.Errorf("change status: %v", err)
			}
		}()
	}
	wg.Wait()

	current, err := svc.GetOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if current.Status != domain.StatusInPreparation {
		t.Fatalf("status = %s after 3 concurrent advances, expected %s", current.Status, domain.StatusInPreparation)
	}
}

func TestDeleteOrderOnlyInInitialStatus(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	ctx := context.Background()
	actor := staffUser(domain.PermChangeOrderStatus)

	deletable := createTestOrder(t, svc, "delivery")
	if err := svc.DeleteOrder(ctx, deletable.ID); err != nil {
		t.Fatalf("delete in-service order: %v", err)
	}
	if _, err := svc.GetOrder(ctx, deletable.ID); err == nil {
		t.Fatal("deleted order still readable")
	}

	advanced := createTestOrder(t, svc, "delivery")
	if _, err := svc.ChangeStatus(ctx, advanced.ID, "", actor); err != nil {
		t.Fatalf("advance: %v", err)
	}
	err := svc.DeleteOrder(ctx, advanced.ID)
	if err == nil {
		t.Fatal("expected error deleting advanced order")
	}
	domainErr := apperrors.ToDomainError(err)
	if domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("error code = %s", domainErr.Code)
	}
}

func TestChangeStatusUnknownOrder(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	actor := staffUser(domain.PermChangeOrderStatus)

	_, err := svc.ChangeStatus(context.Background(), "202600010001", "", actor)
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if apperrors.ToDomainError(err).Code != "NOT_FOUND" {
		t.Fatalf("error code = %s", apperrors.ToDomainError(err).Code)
	}
}

func TestAddChatMessage(t *testing.T) {
	svc, _ := newOrderServiceForTest()
	order := createTestOrder(t, svc, "delivery")
	ctx := context.Background()

	msg, err := svc.AddChatMessage(ctx, order.ID, "  Sem cebola, por favor  ", "atendente")
	if err != nil {
		t.Fatalf("add chat message: %v", err)
	}
	if msg.Message != "Sem cebola, por favor" {
		t.Fatalf("message = %q, expected trimmed text", msg.Message)
	}

	if _, err := svc.AddChatMessage(ctx, order.ID, "   ", "atendente"); err == nil {
		t.Fatal("expected validation error for blank message")
	}

	messages, err := svc.ChatMessages(ctx, order.ID)
	if err != nil {
		t.Fatalf("chat messages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
}
