package inventory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

const notifyTimeout = 3 * time.Second

// notifier envía notificaciones después del commit; las fallas se registran y se descartan.
type notifier struct {
	sink NotificationSink
	log  zerolog.Logger
}

func (n notifier) send(ctx context.Context, tenantID, userID, kind, title, message string, payload any) {
	if n.sink == nil || userID == "" {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		n.log.Warn().Err(err).Str("type", kind).Msg("notificación: payload inválido")
		return
	}
	// No hereda la cancelación del request: el movimiento ya está confirmado.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	err = n.sink.Notify(ctx, entity.Notification{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		n.log.Warn().Err(err).
			Str("tenant_id", tenantID).
			Str("user_id", userID).
			Str("type", kind).
			Msg("notificación descartada")
	}
}
