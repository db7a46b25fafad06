package repository

import (
	"context"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar el snapshot por producto+sucursal.
// Usado dentro de transacciones para garantizar consistencia con el ledger.
type StockRepository interface {
	// Get devuelve el snapshot o uno en cero si no existe (sin bloqueo).
	Get(ctx context.Context, tenantID, productID, branchID string) (*entity.Stock, error)
	// GetForUpdate crea la fila si no existe y la bloquea (INSERT ON CONFLICT + SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, tenantID, productID, branchID string) (*entity.Stock, error)
	// Save persiste quantity, reserved_quantity y last_movement_at de una fila existente.
	Save(ctx context.Context, stock *entity.Stock) error
}

// InventoryLevelRepository consultas de lectura del snapshot enriquecido con el catálogo.
type InventoryLevelRepository interface {
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.InventoryLevel, error)
	ListByBranch(ctx context.Context, tenantID, branchID string, limit, offset int) ([]*entity.InventoryLevel, error)
	ListByProduct(ctx context.Context, tenantID, productID string) ([]*entity.InventoryLevel, error)
}
