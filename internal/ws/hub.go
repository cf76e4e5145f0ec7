package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/domain"
)

// Welcome is sent to every connection admitted to the hub.
const Welcome = "Bem-vindo ao servidor WebSocket!"

const writeTimeout = 5 * time.Second

// Authenticator resolves a session token to an authenticated user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Hub registers live client connections and broadcasts bare topic strings to
// all of them. It does not filter by subscriber interest.
type Hub struct {
	authenticator Authenticator
	logger        *zap.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]string
}

// NewHub creates an empty hub.
func NewHub(authenticator Authenticator, logger *zap.Logger) *Hub {
	return &Hub{
		authenticator: authenticator,
		logger:        logger,
		conns:         make(map[*websocket.Conn]string),
	}
}

// Handler accepts WebSocket connections. The client passes its session token
// as a `token` query parameter; connections failing validation are closed
// with a policy-violation code and never registered.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			return
		}

		token := r.URL.Query().Get("token")
		user, err := h.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			h.logger.Warn("websocket connection rejected", zap.Error(err))
			_ = conn.Close(websocket.StatusPolicyViolation, "Token inválido.")
			return
		}

		writeCtx, cancel := context.WithTimeout(r.Context(), writeTimeout)
		err = conn.Write(writeCtx, websocket.MessageText, []byte(Welcome))
		cancel()
		if err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		}

		h.register(conn, user.Username)
		h.logger.Info("websocket client connected", zap.String("subject", user.Username))

		// The hub only pushes; reads are drained until the peer goes away.
		ctx := conn.CloseRead(context.Background())
		<-ctx.Done()
		h.Remove(conn)
		_ = conn.Close(websocket.StatusNormalClosure, "closed")
		h.logger.Info("websocket client disconnected", zap.String("subject", user.Username))
	}
}

func (h *Hub) register(conn *websocket.Conn, subject string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = subject
}

// Remove drops a connection from the live set; tolerant of double removal.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Len returns the number of live connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast sends the topic string to every live connection. Connections that
// fail the send are pruned rather than aborting the broadcast.
func (h *Hub) Broadcast(topic string) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, []byte(topic))
		cancel()
		if err != nil {
			h.Remove(conn)
			_ = conn.Close(websocket.StatusNormalClosure, "write_failed")
		}
	}
}
