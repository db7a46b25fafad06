package ws_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/infrastructure/ws"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	failNext bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failNext {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startHub(t *testing.T) (*ws.Hub, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := ws.NewHub(zerolog.Nop())
	go h.Run(ctx)
	return h, ctx
}

func TestHub_EntregaSoloAlDestinatario(t *testing.T) {
	h, ctx := startHub(t)
	admin := &fakeConn{}
	other := &fakeConn{}
	h.Register(ctx, "t-1", "admin", admin)
	h.Register(ctx, "t-1", "clerk", other)

	h.Deliver(entity.Notification{ID: "n-1", TenantID: "t-1", UserID: "admin", Type: entity.NotificationStockAlert})

	require.Eventually(t, func() bool { return admin.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, other.count())

	var got entity.Notification
	admin.mu.Lock()
	require.NoError(t, json.Unmarshal(admin.messages[0], &got))
	admin.mu.Unlock()
	assert.Equal(t, "n-1", got.ID)
}

func TestHub_MismoUsuarioOtroTenantNoRecibe(t *testing.T) {
	h, ctx := startHub(t)
	conn := &fakeConn{}
	h.Register(ctx, "t-2", "admin", conn)

	h.Deliver(entity.Notification{ID: "n-1", TenantID: "t-1", UserID: "admin"})
	h.Deliver(entity.Notification{ID: "n-2", TenantID: "t-2", UserID: "admin"})

	require.Eventually(t, func() bool { return conn.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHub_ConexionRotaSeRetira(t *testing.T) {
	h, ctx := startHub(t)
	conn := &fakeConn{failNext: true}
	h.Register(ctx, "t-1", "admin", conn)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Deliver(entity.Notification{TenantID: "t-1", UserID: "admin"})

	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, conn.isClosed())
}

func TestHub_UnregisterCierra(t *testing.T) {
	h, ctx := startHub(t)
	conn := &fakeConn{}
	h.Register(ctx, "t-1", "admin", conn)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	h.Unregister(ctx, "t-1", "admin", conn)

	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, conn.isClosed())
}
