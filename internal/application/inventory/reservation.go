package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sucursales/internal/domain"
	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

const referenceTypeReservation = "reservation"

// ReservationUseCase administra apartados: retienen disponibilidad sin tocar el ledger
// hasta que se cumplen.
type ReservationUseCase struct {
	txRunner        TxRunner
	productRepo     repository.ProductRepository
	branchRepo      repository.BranchRepository
	reservationRepo repository.ReservationRepository
	log             zerolog.Logger
	now             func() time.Time
}

// NewReservationUseCase construye el caso de uso.
func NewReservationUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	reservationRepo repository.ReservationRepository,
	log zerolog.Logger,
) *ReservationUseCase {
	return &ReservationUseCase{
		txRunner:        txRunner,
		productRepo:     productRepo,
		branchRepo:      branchRepo,
		reservationRepo: reservationRepo,
		log:             log,
		now:             time.Now,
	}
}

// CreateReservationInput entrada para apartar stock.
type CreateReservationInput struct {
	TenantID        string
	UserID          string
	ProductID       string
	BranchID        string
	Quantity        decimal.Decimal
	ReservationType string
	ReferenceType   string
	ReferenceID     string
	ExpiresAt       *time.Time
}

// Create aparta stock si la cantidad disponible alcanza. El bloqueo de la fila del snapshot
// serializa la verificación con movimientos y otros apartados concurrentes.
func (uc *ReservationUseCase) Create(ctx context.Context, in CreateReservationInput) (*entity.Reservation, error) {
	if in.TenantID == "" || in.ProductID == "" || in.BranchID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if _, _, err := resolveTarget(ctx, uc.productRepo, uc.branchRepo, in.TenantID, in.ProductID, in.BranchID); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return nil, domain.ErrInvalidInput
	}
	if in.ReservationType == "" {
		in.ReservationType = "order"
	}

	res := &entity.Reservation{
		ID:              uuid.New().String(),
		TenantID:        in.TenantID,
		ProductID:       in.ProductID,
		BranchID:        in.BranchID,
		Quantity:        in.Quantity,
		ReservationType: in.ReservationType,
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		ExpiresAt:       in.ExpiresAt,
		Status:          entity.ReservationStatusActive,
		CreatedBy:       in.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		stock, err := repos.Stock.GetForUpdate(ctx, in.TenantID, in.ProductID, in.BranchID)
		if err != nil {
			return err
		}
		if in.Quantity.GreaterThan(stock.Available()) {
			return domain.ErrInsufficientStock
		}
		stock.ReservedQuantity = stock.ReservedQuantity.Add(in.Quantity)
		stock.UpdatedAt = now
		if err := repos.Stock.Save(ctx, stock); err != nil {
			return err
		}
		return repos.Reservations.Create(ctx, res)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("tenant_id", res.TenantID).
		Str("reservation_id", res.ID).
		Str("quantity", res.Quantity.String()).
		Msg("apartado creado")
	return res, nil
}

// Cancel libera un apartado activo y registra quién lo canceló.
func (uc *ReservationUseCase) Cancel(ctx context.Context, tenantID, id, userID string) (*entity.Reservation, error) {
	return uc.release(ctx, tenantID, id, userID, entity.ReservationStatusCancelled)
}

// Fulfill convierte el apartado en una salida: libera lo reservado y registra el exit en la misma tx.
func (uc *ReservationUseCase) Fulfill(ctx context.Context, tenantID, id, userID string) (*entity.Reservation, *entity.InventoryMovement, error) {
	var (
		res *entity.Reservation
		mov *entity.InventoryMovement
	)
	now := uc.now().UTC()
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		res, err = lockActiveReservation(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		stock, err := repos.Stock.GetForUpdate(ctx, tenantID, res.ProductID, res.BranchID)
		if err != nil {
			return err
		}
		stock.ReservedQuantity = decimal.Max(stock.ReservedQuantity.Sub(res.Quantity), decimal.Zero)

		refType, refID := res.ReferenceType, res.ReferenceID
		if refType == "" || refID == "" {
			refType, refID = referenceTypeReservation, res.ID
		}
		mov, err = applyToLocked(ctx, repos, stock, MovementInput{
			TenantID:      tenantID,
			UserID:        userID,
			ProductID:     res.ProductID,
			BranchID:      res.BranchID,
			Type:          entity.MovementTypeExit,
			Quantity:      res.Quantity,
			ReferenceType: refType,
			ReferenceID:   refID,
			Notes:         "Cumplimiento de apartado",
		}, now)
		if err != nil {
			return err
		}
		res.Status = entity.ReservationStatusFulfilled
		res.FulfilledMovementID = mov.ID
		res.UpdatedAt = now
		return repos.Reservations.UpdateStatus(ctx, res)
	})
	if err != nil {
		return nil, nil, err
	}
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("reservation_id", id).
		Str("movement_id", mov.ID).
		Msg("apartado cumplido")
	return res, mov, nil
}

// Get devuelve un apartado del tenant.
func (uc *ReservationUseCase) Get(ctx context.Context, tenantID, id string) (*entity.Reservation, error) {
	res, err := uc.reservationRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	return res, nil
}

// List lista apartados; sin estado explícito devuelve solo los activos.
func (uc *ReservationUseCase) List(ctx context.Context, tenantID string, filter repository.ReservationFilter, limit, offset int) ([]*entity.Reservation, error) {
	if filter.Status == "" {
		filter.Status = entity.ReservationStatusActive
	}
	return uc.reservationRepo.List(ctx, tenantID, filter, limit, offset)
}

// ExpireOverdue vence los apartados activos cuyo expires_at ya pasó. tenantID vacío = todos.
// Lo invoca el barrido programado del worker; los fallos individuales se registran y no detienen el barrido.
func (uc *ReservationUseCase) ExpireOverdue(ctx context.Context, tenantID string, limit int) (int, error) {
	overdue, err := uc.reservationRepo.ListOverdue(ctx, tenantID, uc.now().UTC(), limit)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, r := range overdue {
		if _, err := uc.release(ctx, r.TenantID, r.ID, "", entity.ReservationStatusExpired); err != nil {
			// Pudo haberse cumplido o cancelado entre la lectura y el bloqueo.
			uc.log.Warn().Err(err).
				Str("tenant_id", r.TenantID).
				Str("reservation_id", r.ID).
				Msg("no se pudo vencer el apartado")
			continue
		}
		expired++
	}
	return expired, nil
}

// release pasa un apartado activo a status y descuenta reserved_quantity.
// userID vacío = liberado por el barrido.
func (uc *ReservationUseCase) release(ctx context.Context, tenantID, id, userID, status string) (*entity.Reservation, error) {
	var res *entity.Reservation
	now := uc.now().UTC()
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		res, err = lockActiveReservation(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		stock, err := repos.Stock.GetForUpdate(ctx, tenantID, res.ProductID, res.BranchID)
		if err != nil {
			return err
		}
		stock.ReservedQuantity = decimal.Max(stock.ReservedQuantity.Sub(res.Quantity), decimal.Zero)
		stock.UpdatedAt = now
		if err := repos.Stock.Save(ctx, stock); err != nil {
			return err
		}
		res.Status = status
		res.CancelledBy = userID
		res.CancelledAt = &now
		res.UpdatedAt = now
		return repos.Reservations.UpdateStatus(ctx, res)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("reservation_id", id).
		Str("user_id", userID).
		Str("status", status).
		Msg("apartado liberado")
	return res, nil
}

// lockActiveReservation bloquea el apartado; inexistente, de otro tenant o no activo = ErrNotFound.
func lockActiveReservation(ctx context.Context, repos TxRepos, tenantID, id string) (*entity.Reservation, error) {
	res, err := repos.Reservations.GetForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if res == nil || !res.IsActive() {
		return nil, domain.ErrNotFound
	}
	return res, nil
}
