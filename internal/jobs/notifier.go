package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

var _ inventory.NotificationSink = (*AsynqNotifier)(nil)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqNotifier implementa NotificationSink encolando notification:deliver.
// La entrega real (persistencia y push) ocurre en el worker.
type AsynqNotifier struct {
	client enqueuer
}

// NewAsynqNotifier construye el sink. Acepta *asynq.Client.
func NewAsynqNotifier(client enqueuer) *AsynqNotifier {
	return &AsynqNotifier{client: client}
}

// Notify encola la notificación. Un duplicado por TaskID no es error.
func (n *AsynqNotifier) Notify(ctx context.Context, msg entity.Notification) error {
	task, err := NewNotificationDeliverTask(msg)
	if err != nil {
		return fmt.Errorf("build notification task: %w", err)
	}
	if _, err := n.client.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}
