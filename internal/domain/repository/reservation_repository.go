package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// ReservationFilter filtros para listar apartados.
type ReservationFilter struct {
	ProductID     string
	BranchID      string
	ReferenceType string
	ReferenceID   string
	Status        string
}

// ReservationRepository define el puerto de persistencia de apartados.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Reservation, error)
	// GetForUpdate bloquea la fila del apartado dentro de la transacción.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Reservation, error)
	UpdateStatus(ctx context.Context, reservation *entity.Reservation) error
	List(ctx context.Context, tenantID string, filter ReservationFilter, limit, offset int) ([]*entity.Reservation, error)
	// ListOverdue devuelve apartados activos con expires_at anterior a now. tenantID vacío = todos.
	ListOverdue(ctx context.Context, tenantID string, now time.Time, limit int) ([]*entity.Reservation, error)
}
