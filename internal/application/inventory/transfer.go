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

const referenceTypeTransfer = "transfer"

// TransferUseCase implementa el flujo de traslados entre sucursales.
// El stock se mueve al solicitar (transfer_out + transfer_in); la confirmación del
// administrador de destino solo acusa recibo.
type TransferUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	transferRepo repository.TransferRepository
	movementRepo repository.InventoryMovementRepository
	notify       notifier
	log          zerolog.Logger
	now          func() time.Time
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	transferRepo repository.TransferRepository,
	movementRepo repository.InventoryMovementRepository,
	sink NotificationSink,
	log zerolog.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		transferRepo: transferRepo,
		movementRepo: movementRepo,
		notify:       notifier{sink: sink, log: log},
		log:          log,
		now:          time.Now,
	}
}

// RequestTransferInput entrada para solicitar un traslado.
type RequestTransferInput struct {
	TenantID     string
	UserID       string
	ProductID    string
	FromBranchID string
	ToBranchID   string
	Quantity     decimal.Decimal
	Notes        string
}

// Request crea el traslado y mueve el stock en una sola transacción; queda in_transit.
func (uc *TransferUseCase) Request(ctx context.Context, in RequestTransferInput) (*entity.Transfer, error) {
	if in.TenantID == "" || in.ProductID == "" || in.FromBranchID == "" || in.ToBranchID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FromBranchID == in.ToBranchID || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidMovement
	}
	product, from, err := resolveTarget(ctx, uc.productRepo, uc.branchRepo, in.TenantID, in.ProductID, in.FromBranchID)
	if err != nil {
		return nil, err
	}
	_, to, err := resolveTarget(ctx, uc.productRepo, uc.branchRepo, in.TenantID, in.ProductID, in.ToBranchID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	t := &entity.Transfer{
		ID:           uuid.New().String(),
		TenantID:     in.TenantID,
		ProductID:    in.ProductID,
		FromBranchID: in.FromBranchID,
		ToBranchID:   in.ToBranchID,
		Quantity:     in.Quantity,
		Status:       entity.TransferStatusPending,
		RequestedBy:  in.UserID,
		Notes:        in.Notes,
		RequestedAt:  now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.Run(ctx, func(repos TxRepos) error {
		source, dest, err := lockTransferPair(ctx, repos, t)
		if err != nil {
			return err
		}
		if source.Available().LessThan(t.Quantity) {
			return domain.ErrInsufficientStock
		}
		if err := repos.Transfers.Create(ctx, t); err != nil {
			return err
		}
		if _, err := applyToLocked(ctx, repos, source, transferLeg(t, in.UserID, t.FromBranchID, entity.MovementTypeTransferOut, ""), now); err != nil {
			return err
		}
		if _, err := applyToLocked(ctx, repos, dest, transferLeg(t, in.UserID, t.ToBranchID, entity.MovementTypeTransferIn, ""), now); err != nil {
			return err
		}
		return advanceTransfer(ctx, repos, t, entity.TransferStatusInTransit, now)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("tenant_id", t.TenantID).
		Str("transfer_id", t.ID).
		Str("from", t.FromBranchID).
		Str("to", t.ToBranchID).
		Msg("traslado en tránsito")
	uc.notify.send(ctx, t.TenantID, to.AdminUserID, entity.NotificationTransferRequest,
		"Traslado por confirmar",
		fmt.Sprintf("%s unidades de %s enviadas desde %s", t.Quantity.String(), product.Name, from.Name),
		transferPayload(t))
	return t, nil
}

// Confirm acusa recibo en destino. Solo el administrador de la sucursal destino puede confirmar.
func (uc *TransferUseCase) Confirm(ctx context.Context, tenantID, id, userID string) (*entity.Transfer, error) {
	var t *entity.Transfer
	now := uc.now().UTC()
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		t, err = repos.Transfers.GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		to, err := uc.branchRepo.GetByID(ctx, tenantID, t.ToBranchID)
		if err != nil {
			return err
		}
		if to == nil || to.AdminUserID == "" || to.AdminUserID != userID {
			return domain.ErrForbidden
		}
		t.ConfirmedBy = userID
		t.ConfirmedAt = &now
		return advanceTransfer(ctx, repos, t, entity.TransferStatusReceived, now)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("transfer_id", id).Msg("traslado recibido")
	uc.notify.send(ctx, tenantID, t.RequestedBy, entity.NotificationTransferReceived,
		"Traslado recibido",
		fmt.Sprintf("El traslado de %s unidades fue confirmado en destino", t.Quantity.String()),
		transferPayload(t))
	return t, nil
}

// Cancel revierte un traslado pendiente o en tránsito con movimientos compensatorios:
// ajuste (+q) en origen y salida (-q) en destino, ambos ligados al traslado.
// Si el destino ya vendió o apartó lo recibido devuelve ErrInsufficientStock y no toca nada.
func (uc *TransferUseCase) Cancel(ctx context.Context, tenantID, id, userID, notes string) (*entity.Transfer, error) {
	var t *entity.Transfer
	now := uc.now().UTC()
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		t, err = repos.Transfers.GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if !inventory.CanTransitionTransfer(t.Status, entity.TransferStatusCancelled) {
			return domain.ErrInvalidState
		}
		movs, err := repos.Movements.ListByTransfer(ctx, tenantID, t.ID)
		if err != nil {
			return err
		}
		if len(movs) > 0 {
			source, dest, err := lockTransferPair(ctx, repos, t)
			if err != nil {
				return err
			}
			// La salida compensatoria nunca deja la existencia del destino por debajo de lo apartado.
			if dest.Available().LessThan(t.Quantity) {
				return domain.ErrInsufficientStock
			}
			compNotes := "Cancelación de traslado"
			if notes != "" {
				compNotes += ": " + notes
			}
			if _, err := applyToLocked(ctx, repos, source, transferLeg(t, userID, t.FromBranchID, entity.MovementTypeAdjustment, compNotes), now); err != nil {
				return err
			}
			if _, err := applyToLocked(ctx, repos, dest, transferLeg(t, userID, t.ToBranchID, entity.MovementTypeExit, compNotes), now); err != nil {
				return err
			}
		}
		t.CancelledBy = userID
		t.CancelledAt = &now
		if notes != "" {
			t.Notes = notes
		}
		return advanceTransfer(ctx, repos, t, entity.TransferStatusCancelled, now)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("transfer_id", id).Msg("traslado cancelado")

	if to, err := uc.branchRepo.GetByID(ctx, tenantID, t.ToBranchID); err == nil && to != nil {
		uc.notify.send(ctx, tenantID, to.AdminUserID, entity.NotificationTransferCancel,
			"Traslado cancelado",
			fmt.Sprintf("El traslado de %s unidades fue cancelado", t.Quantity.String()),
			transferPayload(t))
	}
	return t, nil
}

// Get devuelve un traslado del tenant.
func (uc *TransferUseCase) Get(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	t, err := uc.transferRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// List lista traslados por sucursal (origen o destino), estado y producto.
func (uc *TransferUseCase) List(ctx context.Context, tenantID string, filter repository.TransferFilter, limit, offset int) ([]*entity.Transfer, error) {
	return uc.transferRepo.List(ctx, tenantID, filter, limit, offset)
}

// Movements devuelve los movimientos del ledger ligados al traslado.
func (uc *TransferUseCase) Movements(ctx context.Context, tenantID, id string) ([]*entity.InventoryMovement, error) {
	if _, err := uc.Get(ctx, tenantID, id); err != nil {
		return nil, err
	}
	return uc.movementRepo.ListByTransfer(ctx, tenantID, id)
}

// lockTransferPair bloquea los snapshots de origen y destino en orden de branch_id
// para que traslados A→B y B→A concurrentes no se bloqueen mutuamente.
func lockTransferPair(ctx context.Context, repos TxRepos, t *entity.Transfer) (source, dest *entity.Stock, err error) {
	first, second := t.FromBranchID, t.ToBranchID
	if second < first {
		first, second = second, first
	}
	a, err := repos.Stock.GetForUpdate(ctx, t.TenantID, t.ProductID, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := repos.Stock.GetForUpdate(ctx, t.TenantID, t.ProductID, second)
	if err != nil {
		return nil, nil, err
	}
	if first == t.FromBranchID {
		return a, b, nil
	}
	return b, a, nil
}

func transferLeg(t *entity.Transfer, userID, branchID, movType, notes string) MovementInput {
	return MovementInput{
		TenantID:      t.TenantID,
		UserID:        userID,
		ProductID:     t.ProductID,
		BranchID:      branchID,
		Type:          movType,
		Quantity:      t.Quantity,
		ReferenceType: referenceTypeTransfer,
		ReferenceID:   t.ID,
		TransferID:    t.ID,
		Notes:         notes,
	}
}

func advanceTransfer(ctx context.Context, repos TxRepos, t *entity.Transfer, to string, now time.Time) error {
	if !inventory.CanTransitionTransfer(t.Status, to) {
		return domain.ErrInvalidState
	}
	t.Status = to
	t.UpdatedAt = now
	return repos.Transfers.Update(ctx, t)
}

func transferPayload(t *entity.Transfer) map[string]any {
	return map[string]any{
		"transfer_id":    t.ID,
		"product_id":     t.ProductID,
		"from_branch_id": t.FromBranchID,
		"to_branch_id":   t.ToBranchID,
		"quantity":       t.Quantity,
		"status":         t.Status,
	}
}
