package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo persiste notificaciones entregadas.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create inserta la notificación; un reintento de la misma tarea no duplica (ON CONFLICT id).
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, tenant_id, user_id, type, title, message, payload, read_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`
	payload := []byte(n.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	_, err := r.q.Exec(ctx, query,
		n.ID, n.TenantID, n.UserID, n.Type, n.Title, n.Message, payload, n.ReadAt, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListByUser lista las notificaciones de un usuario, más recientes primero.
func (r *NotificationRepo) ListByUser(ctx context.Context, tenantID, userID string, limit, offset int) ([]*entity.Notification, error) {
	limit, offset = pageArgs(limit, offset)
	query := `
		SELECT id, tenant_id, user_id, type, title, message, payload, read_at, created_at
		FROM notifications WHERE tenant_id = $1 AND user_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		var payload []byte
		if err := rows.Scan(&n.ID, &n.TenantID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&payload, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Payload = payload
		list = append(list, &n)
	}
	return list, rows.Err()
}
