package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

const channelPrefix = "notifications:"

// Channel devuelve el canal Redis de un tenant.
func Channel(tenantID string) string {
	return channelPrefix + tenantID
}

// NewRedisClient crea el cliente Redis y verifica la conexión.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Publisher publica notificaciones entregadas en el canal del tenant.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher construye el publicador.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// Publish serializa la notificación y la publica en notifications:<tenant>.
func (p *Publisher) Publish(ctx context.Context, n entity.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := p.rdb.Publish(ctx, Channel(n.TenantID), body).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Subscriber escucha los canales de todos los tenants y entrega cada notificación a un handler.
type Subscriber struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewSubscriber construye el suscriptor.
func NewSubscriber(rdb *redis.Client, log zerolog.Logger) *Subscriber {
	return &Subscriber{rdb: rdb, log: log}
}

// Run bloquea hasta que ctx se cancela. Mensajes mal formados se descartan.
func (s *Subscriber) Run(ctx context.Context, handle func(entity.Notification)) error {
	sub := s.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	// Confirma la suscripción antes de consumir.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe notifications: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var n entity.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				s.log.Warn().Err(err).Str("channel", msg.Channel).Msg("notificación ilegible")
				continue
			}
			if n.TenantID == "" {
				n.TenantID = strings.TrimPrefix(msg.Channel, channelPrefix)
			}
			handle(n)
		}
	}
}
