package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, tenant_id, product_id, from_branch_id, to_branch_id, quantity, status,
	requested_by, confirmed_by, cancelled_by, notes, requested_at, confirmed_at, cancelled_at, updated_at`

// Create persiste un traslado.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO inventory_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TenantID, t.ProductID, t.FromBranchID, t.ToBranchID, t.Quantity, t.Status,
		nullString(t.RequestedBy), nullString(t.ConfirmedBy), nullString(t.CancelledBy), t.Notes,
		t.RequestedAt, t.ConfirmedAt, t.CancelledAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

// GetByID obtiene un traslado del tenant. nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	return r.getOne(ctx, `SELECT `+transferColumns+` FROM inventory_transfers WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

// GetForUpdate obtiene el traslado bloqueando la fila (serializa confirmar/cancelar).
func (r *TransferRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	return r.getOne(ctx, `SELECT `+transferColumns+` FROM inventory_transfers WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

// Update persiste estado, firmas y marcas de tiempo.
func (r *TransferRepo) Update(ctx context.Context, t *entity.Transfer) error {
	query := `
		UPDATE inventory_transfers
		SET status = $3, confirmed_by = $4, cancelled_by = $5, notes = $6,
			confirmed_at = $7, cancelled_at = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		t.TenantID, t.ID, t.Status, nullString(t.ConfirmedBy), nullString(t.CancelledBy), t.Notes,
		t.ConfirmedAt, t.CancelledAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	return nil
}

// List lista traslados del tenant. BranchID coincide con origen o destino.
func (r *TransferRepo) List(ctx context.Context, tenantID string, f repository.TransferFilter, limit, offset int) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM inventory_transfers WHERE tenant_id = $1`
	args := []any{tenantID}
	if f.BranchID != "" {
		args = append(args, f.BranchID)
		query += fmt.Sprintf(" AND (from_branch_id = $%d OR to_branch_id = $%d)", len(args), len(args))
	}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		query += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	limit, offset = pageArgs(limit, offset)
	query += fmt.Sprintf(" ORDER BY requested_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return scanTransfers(rows)
}

func (r *TransferRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Transfer, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	list, err := scanTransfers(rows)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func scanTransfers(rows pgx.Rows) ([]*entity.Transfer, error) {
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		var t entity.Transfer
		var requestedBy, confirmedBy, cancelledBy *string
		if err := rows.Scan(&t.ID, &t.TenantID, &t.ProductID, &t.FromBranchID, &t.ToBranchID,
			&t.Quantity, &t.Status, &requestedBy, &confirmedBy, &cancelledBy, &t.Notes,
			&t.RequestedAt, &t.ConfirmedAt, &t.CancelledAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		t.RequestedBy = derefString(requestedBy)
		t.ConfirmedBy = derefString(confirmedBy)
		t.CancelledBy = derefString(cancelledBy)
		list = append(list, &t)
	}
	return list, rows.Err()
}
