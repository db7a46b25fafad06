package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

type alertEvaluator interface {
	EvaluateAllTenants(ctx context.Context, parallelism int) (inventory.AlertSummary, error)
}

// AlertsJob evalúa las alertas de todos los tenants según el cron configurado.
type AlertsJob struct {
	uc          alertEvaluator
	parallelism int
	log         zerolog.Logger
}

// NewAlertsJob construye el handler.
func NewAlertsJob(uc alertEvaluator, parallelism int, log zerolog.Logger) *AlertsJob {
	return &AlertsJob{uc: uc, parallelism: parallelism, log: log}
}

// Handle ejecuta la evaluación.
func (j *AlertsJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.uc == nil {
		return errors.New("alerts job: handler no configurado")
	}
	start := time.Now()
	summary, err := j.uc.EvaluateAllTenants(ctx, j.parallelism)
	if err != nil {
		return fmt.Errorf("evaluate alerts: %w", err)
	}
	j.log.Info().
		Int("created", summary.Created).
		Int("refreshed", summary.Refreshed).
		Int("retired", summary.Retired).
		Dur("elapsed", time.Since(start)).
		Msg("alertas evaluadas")
	return nil
}

type reservationExpirer interface {
	ExpireOverdue(ctx context.Context, tenantID string, limit int) (int, error)
}

const (
	sweepBatch     = 200
	sweepMaxRounds = 10
)

// ReservationSweepJob vence apartados con expires_at pasado en lotes.
type ReservationSweepJob struct {
	uc  reservationExpirer
	log zerolog.Logger
}

// NewReservationSweepJob construye el handler.
func NewReservationSweepJob(uc reservationExpirer, log zerolog.Logger) *ReservationSweepJob {
	return &ReservationSweepJob{uc: uc, log: log}
}

// Handle procesa lotes hasta que uno no llega completo; el resto queda para el siguiente tick.
func (j *ReservationSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.uc == nil {
		return errors.New("reservation sweep: handler no configurado")
	}
	total := 0
	for round := 0; round < sweepMaxRounds; round++ {
		n, err := j.uc.ExpireOverdue(ctx, "", sweepBatch)
		if err != nil {
			return fmt.Errorf("expire reservations: %w", err)
		}
		total += n
		if n < sweepBatch {
			break
		}
	}
	if total > 0 {
		j.log.Info().Int("expired", total).Msg("apartados vencidos")
	}
	return nil
}

type notificationStore interface {
	Create(ctx context.Context, n *entity.Notification) error
}

type notificationPublisher interface {
	Publish(ctx context.Context, n entity.Notification) error
}

// DeliveryJob persiste la notificación y la publica para el push por websocket.
type DeliveryJob struct {
	store     notificationStore
	publisher notificationPublisher
	log       zerolog.Logger
}

// NewDeliveryJob construye el handler. publisher puede ser nil (sin push).
func NewDeliveryJob(store notificationStore, publisher notificationPublisher, log zerolog.Logger) *DeliveryJob {
	return &DeliveryJob{store: store, publisher: publisher, log: log}
}

// Handle: payload ilegible se descarta sin reintento; la persistencia se reintenta;
// el push es best-effort.
func (j *DeliveryJob) Handle(ctx context.Context, t *asynq.Task) error {
	var n entity.Notification
	if err := json.Unmarshal(t.Payload(), &n); err != nil {
		return fmt.Errorf("decode notification: %v: %w", err, asynq.SkipRetry)
	}
	if n.TenantID == "" || n.UserID == "" {
		return fmt.Errorf("notification sin destinatario: %w", asynq.SkipRetry)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if err := j.store.Create(ctx, &n); err != nil {
		return err
	}
	if j.publisher != nil {
		if err := j.publisher.Publish(ctx, n); err != nil {
			j.log.Warn().Err(err).Str("notification_id", n.ID).Msg("push de notificación fallido")
		}
	}
	return nil
}
