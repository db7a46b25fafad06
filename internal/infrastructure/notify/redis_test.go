package notify_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/infrastructure/notify"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "notifications:t-1", notify.Channel("t-1"))
}

func TestPublisherSubscriber_EntregaPorTenant(t *testing.T) {
	client := newTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan entity.Notification, 16)
	sub := notify.NewSubscriber(client, zerolog.Nop())
	done := make(chan error, 1)
	go func() {
		done <- sub.Run(ctx, func(n entity.Notification) { received <- n })
	}()

	pub := notify.NewPublisher(client)
	n := entity.Notification{
		ID: "n-1", TenantID: "t-1", UserID: "u-1",
		Type: entity.NotificationStockAlert, Title: "Stock bajo", Message: "P en A",
	}
	// La suscripción es asíncrona: se publica hasta que llega.
	var got entity.Notification
	require.Eventually(t, func() bool {
		_ = pub.Publish(ctx, n)
		select {
		case got = <-received:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "n-1", got.ID)
	assert.Equal(t, "t-1", got.TenantID)
	assert.Equal(t, entity.NotificationStockAlert, got.Type)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("el suscriptor no terminó al cancelar el contexto")
	}
}

func TestLogNotifier_NuncaFalla(t *testing.T) {
	n := notify.NewLogNotifier(zerolog.Nop())
	assert.NoError(t, n.Notify(context.Background(), entity.Notification{TenantID: "t", UserID: "u"}))
}
