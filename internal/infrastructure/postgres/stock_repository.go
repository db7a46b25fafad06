package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre inventory_stock (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `tenant_id, product_id, branch_id, quantity, reserved_quantity, last_movement_at, updated_at`

// Get obtiene el snapshot de un producto en una sucursal; en cero si aún no existe.
func (r *StockRepo) Get(ctx context.Context, tenantID, productID, branchID string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + `
		FROM inventory_stock WHERE tenant_id = $1 AND product_id = $2 AND branch_id = $3`
	s, err := scanStock(r.q.QueryRow(ctx, query, tenantID, productID, branchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NewStock(tenantID, productID, branchID), nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetForUpdate crea la fila si no existe y la bloquea hasta el fin de la transacción.
// El INSERT ... ON CONFLICT evita que dos primeras escrituras concurrentes creen filas distintas.
func (r *StockRepo) GetForUpdate(ctx context.Context, tenantID, productID, branchID string) (*entity.Stock, error) {
	insert := `
		INSERT INTO inventory_stock (tenant_id, product_id, branch_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, 0, 0, now())
		ON CONFLICT (tenant_id, product_id, branch_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, tenantID, productID, branchID); err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	query := `SELECT ` + stockColumns + `
		FROM inventory_stock WHERE tenant_id = $1 AND product_id = $2 AND branch_id = $3
		FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, tenantID, productID, branchID))
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return s, nil
}

// Save persiste cantidades y último movimiento de una fila existente.
func (r *StockRepo) Save(ctx context.Context, s *entity.Stock) error {
	query := `
		UPDATE inventory_stock
		SET quantity = $4, reserved_quantity = $5, last_movement_at = $6, updated_at = now()
		WHERE tenant_id = $1 AND product_id = $2 AND branch_id = $3`
	cmd, err := r.q.Exec(ctx, query,
		s.TenantID, s.ProductID, s.BranchID, s.Quantity, s.ReservedQuantity, s.LastMovementAt,
	)
	if err != nil {
		return fmt.Errorf("save stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("save stock: fila inexistente %s/%s", s.ProductID, s.BranchID)
	}
	return nil
}

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	if err := row.Scan(&s.TenantID, &s.ProductID, &s.BranchID, &s.Quantity,
		&s.ReservedQuantity, &s.LastMovementAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
