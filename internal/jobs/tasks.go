package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

const (
	// QueueDefault cola de las tareas programadas.
	QueueDefault = "default"
	// QueueNotifications cola de entrega de notificaciones.
	QueueNotifications = "notifications"

	// TaskAlertsEvaluate evalúa las alertas de stock de todos los tenants.
	TaskAlertsEvaluate = "inventory:alerts_evaluate"
	// TaskReservationsExpire vence los apartados con expires_at pasado.
	TaskReservationsExpire = "inventory:reservations_expire"
	// TaskNotificationDeliver persiste y publica una notificación.
	TaskNotificationDeliver = "notification:deliver"
)

// ScheduledPayload metadatos de las tareas de cron.
type ScheduledPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewAlertsEvaluateTask construye la tarea de evaluación de alertas.
func NewAlertsEvaluateTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ScheduledPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAlertsEvaluate, body, asynq.Queue(QueueDefault)), nil
}

// NewReservationsExpireTask construye la tarea de barrido de apartados.
func NewReservationsExpireTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ScheduledPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReservationsExpire, body, asynq.Queue(QueueDefault)), nil
}

// NewNotificationDeliverTask construye la tarea de entrega. El ID de la notificación
// se usa como TaskID para que un reintento del emisor no la duplique.
func NewNotificationDeliverTask(n entity.Notification) (*asynq.Task, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	opts := []asynq.Option{asynq.Queue(QueueNotifications), asynq.MaxRetry(5)}
	if n.ID != "" {
		opts = append(opts, asynq.TaskID(n.ID))
	}
	return asynq.NewTask(TaskNotificationDeliver, body, opts...), nil
}
