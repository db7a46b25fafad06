package repository

import (
	"context"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// TransferFilter filtros para listar traslados. BranchID coincide con origen o destino.
type TransferFilter struct {
	BranchID  string
	ProductID string
	Status    string
}

// TransferRepository define el puerto de persistencia de traslados.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Transfer, error)
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Transfer, error)
	Update(ctx context.Context, transfer *entity.Transfer) error
	List(ctx context.Context, tenantID string, filter TransferFilter, limit, offset int) ([]*entity.Transfer, error)
}
