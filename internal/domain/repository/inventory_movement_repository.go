package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// MovementFilter filtros para listar el ledger (kardex).
type MovementFilter struct {
	ProductID  string
	BranchID   string
	TransferID string
	Type       string
	From       *time.Time
	To         *time.Time
}

// InventoryMovementRepository es el puerto del ledger: solo inserción y lectura.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	List(ctx context.Context, tenantID string, filter MovementFilter, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByTransfer(ctx context.Context, tenantID, transferID string) ([]*entity.InventoryMovement, error)
	// SumEffect suma los efectos con signo del par producto/sucursal (replay del ledger).
	SumEffect(ctx context.Context, tenantID, productID, branchID string) (decimal.Decimal, error)
}
