package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// Conn lo mínimo que el hub usa de una conexión websocket.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type subscription struct {
	key  string
	conn Conn
}

// Hub mantiene las conexiones por usuario (tenant + user) y les entrega sus notificaciones.
type Hub struct {
	clients    map[string]map[Conn]bool
	register   chan subscription
	unregister chan subscription
	deliver    chan entity.Notification
	mutex      sync.RWMutex
	log        zerolog.Logger
}

// NewHub construye el hub. Run debe ejecutarse en su propia goroutine.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[Conn]bool),
		register:   make(chan subscription),
		unregister: make(chan subscription),
		deliver:    make(chan entity.Notification, 256),
		log:        log,
	}
}

func clientKey(tenantID, userID string) string {
	return tenantID + "|" + userID
}

// Register agrega la conexión del usuario.
func (h *Hub) Register(ctx context.Context, tenantID, userID string, conn Conn) {
	select {
	case h.register <- subscription{key: clientKey(tenantID, userID), conn: conn}:
	case <-ctx.Done():
	}
}

// Unregister quita y cierra la conexión.
func (h *Hub) Unregister(ctx context.Context, tenantID, userID string, conn Conn) {
	select {
	case h.unregister <- subscription{key: clientKey(tenantID, userID), conn: conn}:
	case <-ctx.Done():
	}
}

// Deliver encola una notificación; si la cola está llena se descarta.
func (h *Hub) Deliver(n entity.Notification) {
	select {
	case h.deliver <- n:
	default:
		h.log.Warn().Str("tenant_id", n.TenantID).Str("user_id", n.UserID).Msg("ws: cola llena, notificación descartada")
	}
}

// ClientCount número de conexiones activas.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}

// Run procesa registros y entregas hasta que ctx se cancela; al salir cierra todas las conexiones.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for key, conns := range h.clients {
				for conn := range conns {
					_ = conn.Close()
				}
				delete(h.clients, key)
			}
			h.mutex.Unlock()
			return

		case sub := <-h.register:
			h.mutex.Lock()
			if h.clients[sub.key] == nil {
				h.clients[sub.key] = make(map[Conn]bool)
			}
			h.clients[sub.key][sub.conn] = true
			h.mutex.Unlock()
			h.log.Debug().Str("client", sub.key).Msg("ws: cliente conectado")

		case sub := <-h.unregister:
			h.mutex.Lock()
			h.remove(sub.key, sub.conn)
			h.mutex.Unlock()

		case n := <-h.deliver:
			message, err := json.Marshal(n)
			if err != nil {
				h.log.Warn().Err(err).Msg("ws: notificación no serializable")
				continue
			}
			key := clientKey(n.TenantID, n.UserID)
			h.mutex.Lock()
			for conn := range h.clients[key] {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.remove(key, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// remove requiere el mutex tomado.
func (h *Hub) remove(key string, conn Conn) {
	conns, ok := h.clients[key]
	if !ok || !conns[conn] {
		return
	}
	delete(conns, conn)
	_ = conn.Close()
	if len(conns) == 0 {
		delete(h.clients, key)
	}
}
