package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo ledger sobre PostgreSQL (usable con pool o tx). Solo inserta y lee.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, tenant_id, product_id, branch_id, type, quantity, previous_stock, new_stock,
	unit_cost, reference_type, reference_id, transfer_id, notes, created_by, created_at`

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TenantID, m.ProductID, m.BranchID, m.Type, m.Quantity, m.PreviousStock, m.NewStock,
		m.UnitCost, nullString(m.ReferenceType), nullString(m.ReferenceID), nullString(m.TransferID),
		m.Notes, nullString(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// List lista el ledger del tenant con filtros opcionales, más reciente primero.
func (r *InventoryMovementRepo) List(ctx context.Context, tenantID string, f repository.MovementFilter, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE tenant_id = $1`
	args := []any{tenantID}
	pos := 2
	add := func(cond string, v any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, v)
		pos++
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.BranchID != "" {
		add("branch_id = $%d", f.BranchID)
	}
	if f.TransferID != "" {
		add("transfer_id = $%d", f.TransferID)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	limit, offset = pageArgs(limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return scanMovements(rows)
}

// ListByTransfer devuelve los movimientos ligados a un traslado en orden de creación.
func (r *InventoryMovementRepo) ListByTransfer(ctx context.Context, tenantID, transferID string) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM inventory_movements WHERE tenant_id = $1 AND transfer_id = $2 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, tenantID, transferID)
	if err != nil {
		return nil, fmt.Errorf("list movements by transfer: %w", err)
	}
	return scanMovements(rows)
}

// SumEffect replay del ledger: suma de efectos con signo del par producto/sucursal.
func (r *InventoryMovementRepo) SumEffect(ctx context.Context, tenantID, productID, branchID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM inventory_movements WHERE tenant_id = $1 AND product_id = $2 AND branch_id = $3`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, tenantID, productID, branchID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

func scanMovements(rows pgx.Rows) ([]*entity.InventoryMovement, error) {
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var refType, refID, transferID, createdBy *string
		if err := rows.Scan(&m.ID, &m.TenantID, &m.ProductID, &m.BranchID, &m.Type, &m.Quantity,
			&m.PreviousStock, &m.NewStock, &m.UnitCost, &refType, &refID, &transferID,
			&m.Notes, &createdBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.ReferenceType = derefString(refType)
		m.ReferenceID = derefString(refID)
		m.TransferID = derefString(transferID)
		m.CreatedBy = derefString(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}
