package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

var _ repository.InventoryLevelRepository = (*InventoryLevelRepo)(nil)

// InventoryLevelRepo lectura del snapshot enriquecido con producto y sucursal.
type InventoryLevelRepo struct {
	q Querier
}

// NewInventoryLevelRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryLevelRepository(q Querier) *InventoryLevelRepo {
	return &InventoryLevelRepo{q: q}
}

const levelSelect = `
	SELECT s.tenant_id, s.branch_id, b.name, s.product_id, p.sku, p.name,
		s.quantity, s.reserved_quantity, p.min_stock, p.max_stock, p.unit_cost, s.updated_at
	FROM inventory_stock s
	JOIN products p ON p.id = s.product_id AND p.tenant_id = s.tenant_id
	JOIN branches b ON b.id = s.branch_id AND b.tenant_id = s.tenant_id
	WHERE s.tenant_id = $1`

// ListByTenant lista todos los snapshots del tenant (evaluación de alertas y valorización).
func (r *InventoryLevelRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.InventoryLevel, error) {
	rows, err := r.q.Query(ctx, levelSelect+` ORDER BY b.name, p.sku`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list inventory levels: %w", err)
	}
	return scanLevels(rows)
}

// ListByBranch lista los snapshots de una sucursal con paginación.
func (r *InventoryLevelRepo) ListByBranch(ctx context.Context, tenantID, branchID string, limit, offset int) ([]*entity.InventoryLevel, error) {
	limit, offset = pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, levelSelect+` AND s.branch_id = $2 ORDER BY p.sku LIMIT $3 OFFSET $4`,
		tenantID, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory levels by branch: %w", err)
	}
	return scanLevels(rows)
}

// ListByProduct lista los snapshots de un producto en todas las sucursales.
func (r *InventoryLevelRepo) ListByProduct(ctx context.Context, tenantID, productID string) ([]*entity.InventoryLevel, error) {
	rows, err := r.q.Query(ctx, levelSelect+` AND s.product_id = $2 ORDER BY b.name`, tenantID, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory levels by product: %w", err)
	}
	return scanLevels(rows)
}

func scanLevels(rows pgx.Rows) ([]*entity.InventoryLevel, error) {
	defer rows.Close()
	var list []*entity.InventoryLevel
	for rows.Next() {
		var l entity.InventoryLevel
		if err := rows.Scan(&l.TenantID, &l.BranchID, &l.BranchName, &l.ProductID, &l.SKU, &l.ProductName,
			&l.Quantity, &l.ReservedQuantity, &l.MinStock, &l.MaxStock, &l.UnitCost, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory level: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
