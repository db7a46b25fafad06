package http

import (
	"context"

	"github.com/jhoicas/inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

// Contratos que los handlers necesitan de la capa de aplicación.
// Los implementan los casos de uso de internal/application/inventory.

type movementService interface {
	RecordMovement(ctx context.Context, in inventory.MovementInput) (*entity.InventoryMovement, error)
	GetStock(ctx context.Context, tenantID, productID, branchID string) (*entity.Stock, error)
	ListStockByBranch(ctx context.Context, tenantID, branchID string, limit, offset int) ([]*entity.InventoryLevel, error)
	ListStockByProduct(ctx context.Context, tenantID, productID string) ([]*entity.InventoryLevel, error)
	ListMovements(ctx context.Context, tenantID string, filter repository.MovementFilter, limit, offset int) ([]*entity.InventoryMovement, error)
	VerifySnapshot(ctx context.Context, tenantID, productID, branchID string) (*inventory.SnapshotCheck, error)
	RebuildSnapshot(ctx context.Context, tenantID, productID, branchID string) (*inventory.SnapshotCheck, error)
}

type reservationService interface {
	Create(ctx context.Context, in inventory.CreateReservationInput) (*entity.Reservation, error)
	Cancel(ctx context.Context, tenantID, id, userID string) (*entity.Reservation, error)
	Fulfill(ctx context.Context, tenantID, id, userID string) (*entity.Reservation, *entity.InventoryMovement, error)
	Get(ctx context.Context, tenantID, id string) (*entity.Reservation, error)
	List(ctx context.Context, tenantID string, filter repository.ReservationFilter, limit, offset int) ([]*entity.Reservation, error)
}

type transferService interface {
	Request(ctx context.Context, in inventory.RequestTransferInput) (*entity.Transfer, error)
	Confirm(ctx context.Context, tenantID, id, userID string) (*entity.Transfer, error)
	Cancel(ctx context.Context, tenantID, id, userID, notes string) (*entity.Transfer, error)
	Get(ctx context.Context, tenantID, id string) (*entity.Transfer, error)
	List(ctx context.Context, tenantID string, filter repository.TransferFilter, limit, offset int) ([]*entity.Transfer, error)
	Movements(ctx context.Context, tenantID, id string) ([]*entity.InventoryMovement, error)
}

type alertService interface {
	Evaluate(ctx context.Context, tenantID string) (inventory.AlertSummary, error)
	ListActive(ctx context.Context, tenantID, branchID string) ([]*entity.Alert, error)
	Acknowledge(ctx context.Context, tenantID, id, userID string) (*entity.Alert, error)
	Dismiss(ctx context.Context, tenantID, id, userID string) (*entity.Alert, error)
}

type valuationService interface {
	Valuation(ctx context.Context, tenantID, branchID string) (*inventory.ValuationReport, error)
	ValuationDetail(ctx context.Context, tenantID, branchID string) (*inventory.ValuationReport, error)
	ExportDetail(ctx context.Context, tenantID, branchID, format string) ([]byte, string, error)
}

type notificationLister interface {
	ListByUser(ctx context.Context, tenantID, userID string, limit, offset int) ([]*entity.Notification, error)
}

var (
	_ movementService    = (*inventory.MovementUseCase)(nil)
	_ reservationService = (*inventory.ReservationUseCase)(nil)
	_ transferService    = (*inventory.TransferUseCase)(nil)
	_ alertService       = (*inventory.AlertUseCase)(nil)
	_ valuationService   = (*inventory.ValuationUseCase)(nil)
)
