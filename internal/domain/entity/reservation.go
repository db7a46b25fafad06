package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un apartado.
const (
	ReservationStatusActive    = "active"
	ReservationStatusFulfilled = "fulfilled"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusExpired   = "expired"
)

// Reservation es un apartado que reduce la cantidad disponible sin tocar el ledger
// hasta que se cumple (se convierte en una salida).
type Reservation struct {
	ID                  string
	TenantID            string
	ProductID           string
	BranchID            string
	Quantity            decimal.Decimal
	ReservationType     string // order, quote, appointment...
	ReferenceType       string
	ReferenceID         string
	ExpiresAt           *time.Time
	Status              string
	CreatedBy           string
	FulfilledMovementID string
	CancelledBy         string // vacío cuando lo venció el barrido
	CancelledAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsActive indica si el apartado sigue reteniendo stock.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusActive
}

// IsOverdue indica si el apartado tiene vencimiento anterior a now.
func (r *Reservation) IsOverdue(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}
