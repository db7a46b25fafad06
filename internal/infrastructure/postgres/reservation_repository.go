package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación de ReservationRepository sobre PostgreSQL.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = `id, tenant_id, product_id, branch_id, quantity, reservation_type,
	reference_type, reference_id, expires_at, status, created_by, fulfilled_movement_id, created_at, updated_at,
	cancelled_by, cancelled_at`

// Create persiste un apartado.
func (r *ReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	query := `
		INSERT INTO inventory_reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		res.ID, res.TenantID, res.ProductID, res.BranchID, res.Quantity, res.ReservationType,
		nullString(res.ReferenceType), nullString(res.ReferenceID), res.ExpiresAt, res.Status,
		nullString(res.CreatedBy), nullString(res.FulfilledMovementID), res.CreatedAt, res.UpdatedAt,
		nullString(res.CancelledBy), res.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// GetByID obtiene un apartado del tenant. nil si no existe.
func (r *ReservationRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM inventory_reservations WHERE tenant_id = $1 AND id = $2`
	return r.getOne(ctx, query, tenantID, id)
}

// GetForUpdate obtiene el apartado bloqueando la fila.
func (r *ReservationRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM inventory_reservations WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return r.getOne(ctx, query, tenantID, id)
}

// UpdateStatus persiste el estado, el movimiento de cumplimiento y quién lo liberó.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, res *entity.Reservation) error {
	query := `
		UPDATE inventory_reservations
		SET status = $3, fulfilled_movement_id = $4, updated_at = $5, cancelled_by = $6, cancelled_at = $7
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query, res.TenantID, res.ID, res.Status, nullString(res.FulfilledMovementID), res.UpdatedAt,
		nullString(res.CancelledBy), res.CancelledAt)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return nil
}

// List lista apartados del tenant con filtros.
func (r *ReservationRepo) List(ctx context.Context, tenantID string, f repository.ReservationFilter, limit, offset int) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM inventory_reservations WHERE tenant_id = $1`
	args := []any{tenantID}
	for _, c := range []struct {
		col string
		val string
	}{
		{"product_id", f.ProductID},
		{"branch_id", f.BranchID},
		{"reference_type", f.ReferenceType},
		{"reference_id", f.ReferenceID},
		{"status", f.Status},
	} {
		if c.val == "" {
			continue
		}
		args = append(args, c.val)
		query += fmt.Sprintf(" AND %s = $%d", c.col, len(args))
	}
	limit, offset = pageArgs(limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return scanReservations(rows)
}

// ListOverdue apartados activos vencidos; tenantID vacío recorre todos los tenants (barrido del worker).
func (r *ReservationRepo) ListOverdue(ctx context.Context, tenantID string, now time.Time, limit int) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM inventory_reservations
		WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at < $1
		AND ($2 = '' OR tenant_id::text = $2)
		ORDER BY expires_at LIMIT $3`
	limit, _ = pageArgs(limit, 0)
	rows, err := r.q.Query(ctx, query, now, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("list overdue reservations: %w", err)
	}
	return scanReservations(rows)
}

func (r *ReservationRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Reservation, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	list, err := scanReservations(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func scanReservations(rows pgx.Rows) ([]*entity.Reservation, error) {
	defer rows.Close()
	var list []*entity.Reservation
	for rows.Next() {
		var res entity.Reservation
		var refType, refID, createdBy, movID, cancelledBy *string
		if err := rows.Scan(&res.ID, &res.TenantID, &res.ProductID, &res.BranchID, &res.Quantity,
			&res.ReservationType, &refType, &refID, &res.ExpiresAt, &res.Status, &createdBy, &movID,
			&res.CreatedAt, &res.UpdatedAt, &cancelledBy, &res.CancelledAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		res.ReferenceType = derefString(refType)
		res.ReferenceID = derefString(refID)
		res.CreatedBy = derefString(createdBy)
		res.FulfilledMovementID = derefString(movID)
		res.CancelledBy = derefString(cancelledBy)
		list = append(list, &res)
	}
	return list, rows.Err()
}
