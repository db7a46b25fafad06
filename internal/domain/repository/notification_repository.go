package repository

import (
	"context"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// NotificationRepository persiste las notificaciones entregadas por el worker.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, tenantID, userID string, limit, offset int) ([]*entity.Notification, error)
}
