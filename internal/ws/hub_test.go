package ws

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/domain"
)

type staticAuthenticator struct {
	token string
}

func (a *staticAuthenticator) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if token != a.token {
		return nil, errors.New("invalid token")
	}
	return &domain.User{Username: "admin", Active: true}, nil
}

func newHubServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(&staticAuthenticator{token: "good-token"}, zap.NewNop())
	server := httptest.NewServer(hub.Handler())
	t.Cleanup(server.Close)
	return hub, server
}

func dialHub(t *testing.T, server *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, server.URL+"?token="+token, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	kind, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != websocket.MessageText {
		t.Fatalf("message type = %v", kind)
	}
	return string(data)
}

func waitForLen(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for hub.Len() != want {
		if time.Now().After(deadline) {
			t.Fatalf("hub size = %d, expected %d", hub.Len(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubWelcomesAuthenticatedClients(t *testing.T) {
	hub, server := newHubServer(t)
	conn := dialHub(t, server, "good-token")
	defer conn.Close(websocket.StatusNormalClosure, "done")

	if got := readText(t, conn); got != Welcome {
		t.Fatalf("welcome = %q, expected %q", got, Welcome)
	}
	waitForLen(t, hub, 1)
}

func TestHubRejectsBadToken(t *testing.T) {
	hub, server := newHubServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, server.URL+"?token=bad", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	_, _, err = conn.Read(ctx)
	if err == nil {
		t.Fatal("expected close for bad token")
	}
	var closeErr websocket.CloseError
	if !errors.As(err, &closeErr) {
		t.Fatalf("expected close error, got %v", err)
	}
	if closeErr.Code != websocket.StatusPolicyViolation {
		t.Fatalf("close code = %d, expected %d", closeErr.Code, websocket.StatusPolicyViolation)
	}
	if closeErr.Reason != "Token inválido." {
		t.Fatalf("close reason = %q", closeErr.Reason)
	}
	if hub.Len() != 0 {
		t.Fatalf("rejected connection registered, hub size = %d", hub.Len())
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub, server := newHubServer(t)

	conns := make([]*websocket.Conn, 3)
	for i := range conns {
		conns[i] = dialHub(t, server, "good-token")
		defer conns[i].Close(websocket.StatusNormalClosure, "done")
		if got := readText(t, conns[i]); got != Welcome {
			t.Fatalf("welcome = %q", got)
		}
	}
	waitForLen(t, hub, 3)

	hub.Broadcast("/pedidos")
	for i, conn := range conns {
		if got := readText(t, conn); got != "/pedidos" {
			t.Fatalf("conn %d received %q, expected /pedidos", i, got)
		}
	}
}

func TestBroadcastPrunesClosedConnections(t *testing.T) {
	hub, server := newHubServer(t)

	stayer := dialHub(t, server, "good-token")
	defer stayer.Close(websocket.StatusNormalClosure, "done")
	readText(t, stayer)

	leaver := dialHub(t, server, "good-token")
	readText(t, leaver)
	waitForLen(t, hub, 2)

	_ = leaver.Close(websocket.StatusNormalClosure, "bye")
	waitForLen(t, hub, 1)

	hub.Broadcast("/pedidos")
	if got := readText(t, stayer); got != "/pedidos" {
		t.Fatalf("received %q, expected /pedidos", got)
	}
}
