package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
)

type captureBroadcaster struct {
	topics []string
}

func (c *captureBroadcaster) Broadcast(topic string) {
	c.topics = append(c.topics, topic)
}

func newNotificationServiceForTest() (events.Dispatcher, *captureBroadcaster) {
	dispatcher := events.NewInMemoryDispatcher()
	broadcaster := &captureBroadcaster{}
	svc := NewNotificationService(dispatcher, broadcaster, zap.NewNop())
	svc.RegisterHandlers()
	return dispatcher, broadcaster
}

func publish(t *testing.T, dispatcher events.Dispatcher, event events.Event) {
	t.Helper()
	if err := dispatcher.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func assertTopics(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("topics = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topic %d = %q, expected %q", i, got[i], want[i])
		}
	}
}

func TestOrderCreatedTopics(t *testing.T) {
	dispatcher, broadcaster := newNotificationServiceForTest()
	publish(t, dispatcher, events.Event{
		Type:    events.EventOrderCreated,
		OrderID: "202609010001",
	})
	assertTopics(t, broadcaster.topics, []string{
		"/novo_pedidos/202609010001",
		"/pedidos",
	})
}

func TestOrderStatusChangedTopics(t *testing.T) {
	dispatcher, broadcaster := newNotificationServiceForTest()
	publish(t, dispatcher, events.Event{
		Type:    events.EventOrderStatusChanged,
		OrderID: "202609010001",
		Payload: events.OrderStatusChangedPayload{
			OldStatus: domain.StatusInService,
			NewStatus: domain.StatusAwaitingPayment,
		},
	})
	assertTopics(t, broadcaster.topics, []string{
		"/status_pedidos/202609010001/Pagamento",
		"/chat/202609010001",
		"/pedidos",
	})
}

func TestOrderDeletedTopics(t *testing.T) {
	dispatcher, broadcaster := newNotificationServiceForTest()
	publish(t, dispatcher, events.Event{
		Type:    events.EventOrderDeleted,
		OrderID: "202609010001",
	})
	assertTopics(t, broadcaster.topics, []string{"/pedidos"})
}

func TestChatMessageAddedTopics(t *testing.T) {
	dispatcher, broadcaster := newNotificationServiceForTest()
	publish(t, dispatcher, events.Event{
		Type:    events.EventChatMessageAdded,
		OrderID: "202609010001",
	})
	assertTopics(t, broadcaster.topics, []string{"/chat/202609010001"})
}

func TestCatalogChangeTopics(t *testing.T) {
	dispatcher, broadcaster := newNotificationServiceForTest()
	publish(t, dispatcher, events.Event{Type: events.EventProductChanged})
	publish(t, dispatcher, events.Event{Type: events.EventCustomerChanged})
	assertTopics(t, broadcaster.topics, []string{"/produto", "/clientes"})
}
