package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo lectura de sucursales sobre PostgreSQL.
type BranchRepo struct {
	pool *pgxpool.Pool
}

// NewBranchRepository construye el adaptador de persistencia para sucursales.
func NewBranchRepository(pool *pgxpool.Pool) *BranchRepo {
	return &BranchRepo{pool: pool}
}

const branchColumns = `id, tenant_id, name, address, is_active, admin_user_id, created_at, updated_at`

// GetByID obtiene una sucursal del tenant. nil si no existe.
func (r *BranchRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE tenant_id = $1 AND id = $2`
	b, err := scanBranch(r.pool.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return b, nil
}

// ListByTenant lista las sucursales del tenant por nombre.
func (r *BranchRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE tenant_id = $1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// ListTenantIDs devuelve los tenants con al menos una sucursal activa.
func (r *BranchRepo) ListTenantIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT tenant_id::text FROM branches WHERE is_active ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanBranch(row pgx.Row) (*entity.Branch, error) {
	var b entity.Branch
	var address, admin *string
	if err := row.Scan(&b.ID, &b.TenantID, &b.Name, &address, &b.IsActive, &admin,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Address = derefString(address)
	b.AdminUserID = derefString(admin)
	return &b, nil
}
