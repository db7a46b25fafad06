package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo lectura del catálogo sobre PostgreSQL (usable con pool o tx).
// El catálogo es dueño de la tabla products; aquí no se escribe.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto del tenant. nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	query := `
		SELECT id, tenant_id, sku, name, min_stock, max_stock, unit_cost, is_active, created_at, updated_at
		FROM products WHERE tenant_id = $1 AND id = $2`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.MinStock, &p.MaxStock, &p.UnitCost,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}
