package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// LogNotifier sink que solo registra la notificación. Se usa con NOTIFY_ENABLED=false.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el sink de log.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify escribe la notificación en el log y nunca falla.
func (n *LogNotifier) Notify(ctx context.Context, msg entity.Notification) error {
	n.log.Info().
		Str("tenant_id", msg.TenantID).
		Str("user_id", msg.UserID).
		Str("type", msg.Type).
		Str("title", msg.Title).
		Msg(msg.Message)
	return nil
}
