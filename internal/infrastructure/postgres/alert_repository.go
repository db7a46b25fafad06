package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-sucursales/internal/domain"
	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository sobre PostgreSQL.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador.
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `id, tenant_id, product_id, branch_id, alert_type, current_quantity, threshold_quantity,
	status, acknowledged_by, acknowledged_at, dismissed_at, created_at, updated_at`

// Create inserta una alerta activa. El índice único parcial sobre las abiertas
// (activas y reconocidas) convierte un duplicado concurrente en domain.ErrConflict.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	query := `
		INSERT INTO inventory_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.TenantID, a.ProductID, nullString(a.BranchID), a.AlertType, a.CurrentQuantity,
		a.ThresholdQuantity, a.Status, nullString(a.AcknowledgedBy), a.AcknowledgedAt, a.DismissedAt,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta del tenant. nil si no existe.
func (r *AlertRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM inventory_alerts WHERE tenant_id = $1 AND id = $2`
	a, err := scanAlert(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// Update persiste cantidades y estado.
func (r *AlertRepo) Update(ctx context.Context, a *entity.Alert) error {
	query := `
		UPDATE inventory_alerts
		SET current_quantity = $3, threshold_quantity = $4, status = $5, acknowledged_by = $6,
			acknowledged_at = $7, dismissed_at = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		a.TenantID, a.ID, a.CurrentQuantity, a.ThresholdQuantity, a.Status,
		nullString(a.AcknowledgedBy), a.AcknowledgedAt, a.DismissedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	return nil
}

// ListActive lista alertas activas; branchID vacío = todas.
func (r *AlertRepo) ListActive(ctx context.Context, tenantID, branchID string) ([]*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM inventory_alerts
		WHERE tenant_id = $1 AND status = 'active' AND ($2 = '' OR branch_id::text = $2)
		ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, tenantID, branchID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// ListOpen lista alertas activas y reconocidas del tenant.
func (r *AlertRepo) ListOpen(ctx context.Context, tenantID string) ([]*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM inventory_alerts
		WHERE tenant_id = $1 AND status IN ('active', 'acknowledged')`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list open alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	var branchID, ackBy *string
	if err := row.Scan(&a.ID, &a.TenantID, &a.ProductID, &branchID, &a.AlertType, &a.CurrentQuantity,
		&a.ThresholdQuantity, &a.Status, &ackBy, &a.AcknowledgedAt, &a.DismissedAt,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.BranchID = derefString(branchID)
	a.AcknowledgedBy = derefString(ackBy)
	return &a, nil
}
