package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock es el snapshot materializado de un producto en una sucursal (tabla inventory_stock).
// Se crea con el primer movimiento del par producto/sucursal y nunca se elimina.
type Stock struct {
	TenantID         string
	ProductID        string
	BranchID         string
	Quantity         decimal.Decimal // existencia física
	ReservedQuantity decimal.Decimal // apartados activos
	LastMovementAt   *time.Time
	UpdatedAt        time.Time
}

// NewStock devuelve un snapshot en cero para el par producto/sucursal.
func NewStock(tenantID, productID, branchID string) *Stock {
	return &Stock{
		TenantID:         tenantID,
		ProductID:        productID,
		BranchID:         branchID,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
	}
}

// Available = Quantity - ReservedQuantity.
func (s Stock) Available() decimal.Decimal {
	return s.Quantity.Sub(s.ReservedQuantity)
}
