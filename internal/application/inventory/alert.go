package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-sucursales/internal/domain"
	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/inventory"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

// AlertSummary resultado de una evaluación de alertas.
type AlertSummary struct {
	Created   int `json:"created"`
	Refreshed int `json:"refreshed"`
	Retired   int `json:"retired"`
}

func (s *AlertSummary) add(o AlertSummary) {
	s.Created += o.Created
	s.Refreshed += o.Refreshed
	s.Retired += o.Retired
}

// AlertUseCase genera y administra alertas de umbral sobre los snapshots.
// Las alertas son derivadas: se pueden regenerar en cualquier momento.
type AlertUseCase struct {
	levelRepo  repository.InventoryLevelRepository
	alertRepo  repository.AlertRepository
	branchRepo repository.BranchRepository
	notify     notifier
	log        zerolog.Logger
	now        func() time.Time
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(
	levelRepo repository.InventoryLevelRepository,
	alertRepo repository.AlertRepository,
	branchRepo repository.BranchRepository,
	sink NotificationSink,
	log zerolog.Logger,
) *AlertUseCase {
	return &AlertUseCase{
		levelRepo:  levelRepo,
		alertRepo:  alertRepo,
		branchRepo: branchRepo,
		notify:     notifier{sink: sink, log: log},
		log:        log,
		now:        time.Now,
	}
}

// Evaluate compara cada snapshot del tenant con los umbrales del producto.
// Una alerta abierta (activa o reconocida) con la misma llave (producto, sucursal, tipo) se
// refresca sin cambiar de estado en lugar de duplicarse; las abiertas cuya condición ya no
// se cumple se retiran como dismissed. Una reconocida no vuelve a notificar mientras siga abierta.
func (uc *AlertUseCase) Evaluate(ctx context.Context, tenantID string) (AlertSummary, error) {
	var summary AlertSummary
	if tenantID == "" {
		return summary, domain.ErrInvalidInput
	}
	levels, err := uc.levelRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return summary, err
	}
	open, err := uc.alertRepo.ListOpen(ctx, tenantID)
	if err != nil {
		return summary, err
	}
	existing := make(map[string]*entity.Alert, len(open))
	for _, a := range open {
		existing[a.Key()] = a
	}

	now := uc.now().UTC()
	held := make(map[string]struct{})
	var created []*entity.Alert
	for _, lvl := range levels {
		for _, cond := range inventory.ClassifyStock(lvl.Quantity, lvl.MinStock, lvl.MaxStock) {
			a := &entity.Alert{
				ID:                uuid.New().String(),
				TenantID:          tenantID,
				ProductID:         lvl.ProductID,
				BranchID:          lvl.BranchID,
				AlertType:         cond.AlertType,
				CurrentQuantity:   lvl.Quantity,
				ThresholdQuantity: cond.Threshold,
				Status:            entity.AlertStatusActive,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			key := a.Key()
			held[key] = struct{}{}

			if prev, ok := existing[key]; ok {
				if prev.CurrentQuantity.Equal(lvl.Quantity) && prev.ThresholdQuantity.Equal(cond.Threshold) {
					continue
				}
				prev.CurrentQuantity = lvl.Quantity
				prev.ThresholdQuantity = cond.Threshold
				prev.UpdatedAt = now
				if err := uc.alertRepo.Update(ctx, prev); err != nil {
					return summary, err
				}
				summary.Refreshed++
				continue
			}
			if err := uc.alertRepo.Create(ctx, a); err != nil {
				// Otra evaluación concurrente ya la creó (índice único parcial).
				if errors.Is(err, domain.ErrConflict) {
					continue
				}
				return summary, err
			}
			summary.Created++
			created = append(created, a)
		}
	}

	for key, a := range existing {
		if _, ok := held[key]; ok || a.BranchID == "" {
			continue
		}
		a.Status = entity.AlertStatusDismissed
		a.DismissedAt = &now
		a.UpdatedAt = now
		if err := uc.alertRepo.Update(ctx, a); err != nil {
			return summary, err
		}
		summary.Retired++
	}

	uc.log.Info().
		Str("tenant_id", tenantID).
		Int("created", summary.Created).
		Int("refreshed", summary.Refreshed).
		Int("retired", summary.Retired).
		Msg("alertas evaluadas")
	uc.notifyCreated(ctx, tenantID, created, levels)
	return summary, nil
}

// EvaluateAllTenants evalúa todos los tenants con sucursales activas, con paralelismo acotado.
// El fallo de un tenant se registra y no detiene a los demás.
func (uc *AlertUseCase) EvaluateAllTenants(ctx context.Context, parallelism int) (AlertSummary, error) {
	var total AlertSummary
	tenants, err := uc.branchRepo.ListTenantIDs(ctx)
	if err != nil {
		return total, err
	}
	if parallelism <= 0 {
		parallelism = 4
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, tenantID := range tenants {
		g.Go(func() error {
			s, err := uc.Evaluate(gctx, tenantID)
			if err != nil {
				uc.log.Error().Err(err).Str("tenant_id", tenantID).Msg("evaluación de alertas fallida")
				return nil
			}
			mu.Lock()
			total.add(s)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return total, err
	}
	return total, ctx.Err()
}

// ListActive lista alertas activas; branchID vacío = todas las sucursales.
func (uc *AlertUseCase) ListActive(ctx context.Context, tenantID, branchID string) ([]*entity.Alert, error) {
	return uc.alertRepo.ListActive(ctx, tenantID, branchID)
}

// Acknowledge marca una alerta activa como vista.
func (uc *AlertUseCase) Acknowledge(ctx context.Context, tenantID, id, userID string) (*entity.Alert, error) {
	return uc.transition(ctx, tenantID, id, userID, entity.AlertStatusAcknowledged)
}

// Dismiss descarta una alerta activa.
func (uc *AlertUseCase) Dismiss(ctx context.Context, tenantID, id, userID string) (*entity.Alert, error) {
	return uc.transition(ctx, tenantID, id, userID, entity.AlertStatusDismissed)
}

func (uc *AlertUseCase) transition(ctx context.Context, tenantID, id, userID, status string) (*entity.Alert, error) {
	a, err := uc.alertRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if a.Status != entity.AlertStatusActive {
		return nil, domain.ErrInvalidState
	}
	now := uc.now().UTC()
	a.Status = status
	a.UpdatedAt = now
	if status == entity.AlertStatusAcknowledged {
		a.AcknowledgedBy = userID
		a.AcknowledgedAt = &now
	} else {
		a.DismissedAt = &now
	}
	if err := uc.alertRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (uc *AlertUseCase) notifyCreated(ctx context.Context, tenantID string, created []*entity.Alert, levels []*entity.InventoryLevel) {
	if len(created) == 0 {
		return
	}
	branches, err := uc.branchRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("alertas: no se pudieron leer sucursales")
		return
	}
	admins := make(map[string]string, len(branches))
	for _, b := range branches {
		admins[b.ID] = b.AdminUserID
	}
	names := make(map[string]string, len(levels))
	for _, l := range levels {
		names[l.ProductID] = l.ProductName
	}
	for _, a := range created {
		uc.notify.send(ctx, tenantID, admins[a.BranchID], entity.NotificationStockAlert,
			alertTitle(a.AlertType),
			fmt.Sprintf("%s: existencia %s (umbral %s)", names[a.ProductID], a.CurrentQuantity.String(), a.ThresholdQuantity.String()),
			map[string]any{
				"alert_id":   a.ID,
				"alert_type": a.AlertType,
				"product_id": a.ProductID,
				"branch_id":  a.BranchID,
				"current":    a.CurrentQuantity,
				"threshold":  a.ThresholdQuantity,
			})
	}
}

func alertTitle(alertType string) string {
	switch alertType {
	case entity.AlertTypeOutOfStock:
		return "Producto agotado"
	case entity.AlertTypeOverstock:
		return "Sobrestock"
	default:
		return "Stock bajo"
	}
}
