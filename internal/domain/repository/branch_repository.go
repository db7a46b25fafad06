package repository

import (
	"context"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// BranchRepository es el puerto de lectura de sucursales del tenant.
type BranchRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Branch, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Branch, error)
	// ListTenantIDs devuelve los tenants con al menos una sucursal activa (barridos del worker).
	ListTenantIDs(ctx context.Context) ([]string, error)
}
