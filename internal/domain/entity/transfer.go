package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un traslado entre sucursales.
const (
	TransferStatusPending   = "pending"
	TransferStatusInTransit = "in_transit"
	TransferStatusReceived  = "received"
	TransferStatusCancelled = "cancelled"
)

// Transfer mueve una cantidad de un producto de una sucursal a otra.
// Es dueño de exactamente un par de movimientos transfer_out/transfer_in.
type Transfer struct {
	ID           string
	TenantID     string
	ProductID    string
	FromBranchID string
	ToBranchID   string
	Quantity     decimal.Decimal
	Status       string
	RequestedBy  string
	ConfirmedBy  string
	CancelledBy  string
	Notes        string
	RequestedAt  time.Time
	ConfirmedAt  *time.Time
	CancelledAt  *time.Time
	UpdatedAt    time.Time
}

// IsTerminal indica si el traslado ya no admite transiciones.
func (t *Transfer) IsTerminal() bool {
	return t.Status == TransferStatusReceived || t.Status == TransferStatusCancelled
}
