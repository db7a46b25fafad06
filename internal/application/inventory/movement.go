package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sucursales/internal/domain"
	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/inventory"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

// MovementUseCase es la primitiva ledger + snapshot: cada movimiento bloquea la fila
// de inventory_stock (SELECT FOR UPDATE), actualiza el snapshot e inserta el registro
// del ledger en la misma transacción.
type MovementUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	stockRepo    repository.StockRepository
	levelRepo    repository.InventoryLevelRepository
	movementRepo repository.InventoryMovementRepository
	notify       notifier
	now          func() time.Time
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	stockRepo repository.StockRepository,
	levelRepo repository.InventoryLevelRepository,
	movementRepo repository.InventoryMovementRepository,
	sink NotificationSink,
	log zerolog.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		stockRepo:    stockRepo,
		levelRepo:    levelRepo,
		movementRepo: movementRepo,
		notify:       notifier{sink: sink, log: log},
		now:          time.Now,
	}
}

// MovementInput entrada para aplicar un movimiento al ledger.
// AdjustDirection solo aplica a ajustes (increase por defecto, decrease permite stock negativo).
type MovementInput struct {
	TenantID        string
	UserID          string
	ProductID       string
	BranchID        string
	Type            string
	Quantity        decimal.Decimal
	AdjustDirection string
	UnitCost        *decimal.Decimal
	ReferenceType   string
	ReferenceID     string
	TransferID      string
	Notes           string
}

// SnapshotCheck resultado de comparar el snapshot contra el replay del ledger.
type SnapshotCheck struct {
	ProductID        string          `json:"product_id"`
	BranchID         string          `json:"branch_id"`
	SnapshotQuantity decimal.Decimal `json:"snapshot_quantity"`
	LedgerQuantity   decimal.Decimal `json:"ledger_quantity"`
	Consistent       bool            `json:"consistent"`
}

// RecordMovement registra una entrada/salida/venta/devolución/ajuste pedida por un usuario.
// Además de ApplyMovement verifica la precondición de disponibilidad para los tipos que restan.
func (uc *MovementUseCase) RecordMovement(ctx context.Context, in MovementInput) (*entity.InventoryMovement, error) {
	if in.Type == entity.MovementTypeTransferIn || in.Type == entity.MovementTypeTransferOut {
		// Los traslados solo se originan desde el flujo de traslados.
		return nil, domain.ErrInvalidMovement
	}
	return uc.apply(ctx, in, entity.IsOutbound(in.Type))
}

// ApplyMovement es la primitiva sin precondición de disponibilidad: las salidas tienen piso en cero.
func (uc *MovementUseCase) ApplyMovement(ctx context.Context, in MovementInput) (*entity.InventoryMovement, error) {
	return uc.apply(ctx, in, false)
}

func (uc *MovementUseCase) apply(ctx context.Context, in MovementInput, checkAvailable bool) (*entity.InventoryMovement, error) {
	if err := validateMovementInput(in); err != nil {
		return nil, err
	}
	_, branch, err := resolveTarget(ctx, uc.productRepo, uc.branchRepo, in.TenantID, in.ProductID, in.BranchID)
	if err != nil {
		return nil, err
	}

	var mov *entity.InventoryMovement
	err = uc.txRunner.Run(ctx, func(repos TxRepos) error {
		stock, err := repos.Stock.GetForUpdate(ctx, in.TenantID, in.ProductID, in.BranchID)
		if err != nil {
			return err
		}
		if checkAvailable && in.Quantity.GreaterThan(stock.Available()) {
			return domain.ErrInsufficientStock
		}
		mov, err = applyToLocked(ctx, repos, stock, in, uc.now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.notify.send(ctx, in.TenantID, branch.AdminUserID, entity.NotificationStockMovement,
		"Movimiento de inventario",
		fmt.Sprintf("%s de %s unidades en %s (stock %s → %s)",
			mov.Type, in.Quantity.String(), branch.Name, mov.PreviousStock.String(), mov.NewStock.String()),
		map[string]any{
			"movement_id":    mov.ID,
			"product_id":     mov.ProductID,
			"branch_id":      mov.BranchID,
			"type":           mov.Type,
			"quantity":       mov.Quantity,
			"previous_stock": mov.PreviousStock,
			"new_stock":      mov.NewStock,
		})
	return mov, nil
}

// GetStock devuelve el snapshot de un producto en una sucursal (en cero si nunca tuvo movimientos).
func (uc *MovementUseCase) GetStock(ctx context.Context, tenantID, productID, branchID string) (*entity.Stock, error) {
	if _, _, err := resolveTarget(ctx, uc.productRepo, uc.branchRepo, tenantID, productID, branchID); err != nil && err != domain.ErrInvalidMovement {
		return nil, err
	}
	return uc.stockRepo.Get(ctx, tenantID, productID, branchID)
}

// ListStockByBranch lista los snapshots de una sucursal con datos del producto.
func (uc *MovementUseCase) ListStockByBranch(ctx context.Context, tenantID, branchID string, limit, offset int) ([]*entity.InventoryLevel, error) {
	return uc.levelRepo.ListByBranch(ctx, tenantID, branchID, limit, offset)
}

// ListStockByProduct lista los snapshots de un producto en todas las sucursales.
func (uc *MovementUseCase) ListStockByProduct(ctx context.Context, tenantID, productID string) ([]*entity.InventoryLevel, error) {
	return uc.levelRepo.ListByProduct(ctx, tenantID, productID)
}

// ListMovements lista el ledger con filtros (kardex).
func (uc *MovementUseCase) ListMovements(ctx context.Context, tenantID string, filter repository.MovementFilter, limit, offset int) ([]*entity.InventoryMovement, error) {
	return uc.movementRepo.List(ctx, tenantID, filter, limit, offset)
}

// VerifySnapshot compara la cantidad del snapshot con la suma de efectos del ledger.
func (uc *MovementUseCase) VerifySnapshot(ctx context.Context, tenantID, productID, branchID string) (*SnapshotCheck, error) {
	stock, err := uc.stockRepo.Get(ctx, tenantID, productID, branchID)
	if err != nil {
		return nil, err
	}
	sum, err := uc.movementRepo.SumEffect(ctx, tenantID, productID, branchID)
	if err != nil {
		return nil, err
	}
	return &SnapshotCheck{
		ProductID:        productID,
		BranchID:         branchID,
		SnapshotQuantity: stock.Quantity,
		LedgerQuantity:   sum,
		Consistent:       stock.Quantity.Equal(sum),
	}, nil
}

// RebuildSnapshot reescribe la cantidad del snapshot a partir del ledger, bajo el mismo bloqueo
// de fila que los movimientos. No toca reserved_quantity.
func (uc *MovementUseCase) RebuildSnapshot(ctx context.Context, tenantID, productID, branchID string) (*SnapshotCheck, error) {
	if _, _, err := resolveTarget(ctx, uc.productRepo, uc.branchRepo, tenantID, productID, branchID); err != nil && err != domain.ErrInvalidMovement {
		return nil, err
	}
	var check SnapshotCheck
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		stock, err := repos.Stock.GetForUpdate(ctx, tenantID, productID, branchID)
		if err != nil {
			return err
		}
		sum, err := repos.Movements.SumEffect(ctx, tenantID, productID, branchID)
		if err != nil {
			return err
		}
		check = SnapshotCheck{
			ProductID:        productID,
			BranchID:         branchID,
			SnapshotQuantity: stock.Quantity,
			LedgerQuantity:   sum,
			Consistent:       stock.Quantity.Equal(sum),
		}
		if check.Consistent {
			return nil
		}
		stock.Quantity = sum
		return repos.Stock.Save(ctx, stock)
	})
	if err != nil {
		return nil, err
	}
	return &check, nil
}

// applyToLocked aplica el movimiento sobre un snapshot ya bloqueado en la tx y guarda
// snapshot + ledger. Es la única función que escribe en inventory_movements.
func applyToLocked(ctx context.Context, repos TxRepos, stock *entity.Stock, in MovementInput, now time.Time) (*entity.InventoryMovement, error) {
	previous := stock.Quantity
	next, err := inventory.ComputeNewStock(previous, in.Type, in.Quantity, in.AdjustDirection)
	if err != nil {
		return nil, err
	}
	stock.Quantity = next
	stock.LastMovementAt = &now
	stock.UpdatedAt = now
	if err := repos.Stock.Save(ctx, stock); err != nil {
		return nil, err
	}
	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TenantID:      in.TenantID,
		ProductID:     in.ProductID,
		BranchID:      in.BranchID,
		Type:          in.Type,
		Quantity:      inventory.Effect(previous, next),
		PreviousStock: previous,
		NewStock:      next,
		UnitCost:      in.UnitCost,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		TransferID:    in.TransferID,
		Notes:         in.Notes,
		CreatedBy:     in.UserID,
		CreatedAt:     now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func validateMovementInput(in MovementInput) error {
	if in.TenantID == "" || in.ProductID == "" || in.BranchID == "" {
		return domain.ErrInvalidInput
	}
	if !entity.IsValidMovementType(in.Type) || !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidMovement
	}
	if in.AdjustDirection != "" && in.AdjustDirection != entity.AdjustIncrease && in.AdjustDirection != entity.AdjustDecrease {
		return domain.ErrInvalidMovement
	}
	if in.UnitCost != nil && in.UnitCost.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}

// resolveTarget valida que producto y sucursal existan en el tenant; sucursal inactiva = ErrInvalidMovement.
// Devuelve producto y sucursal aun cuando la sucursal esté inactiva, para lecturas.
func resolveTarget(ctx context.Context, productRepo repository.ProductRepository, branchRepo repository.BranchRepository, tenantID, productID, branchID string) (*entity.Product, *entity.Branch, error) {
	product, err := productRepo.GetByID(ctx, tenantID, productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	branch, err := branchRepo.GetByID(ctx, tenantID, branchID)
	if err != nil {
		return nil, nil, err
	}
	if branch == nil {
		return nil, nil, domain.ErrNotFound
	}
	if !branch.IsActive {
		return product, branch, domain.ErrInvalidMovement
	}
	return product, branch, nil
}
