package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLevel es la vista de lectura de un snapshot junto con los datos del producto
// (umbrales y costo). La usan el evaluador de alertas y la valorización.
type InventoryLevel struct {
	TenantID         string
	BranchID         string
	BranchName       string
	ProductID        string
	SKU              string
	ProductName      string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	MinStock         decimal.Decimal
	MaxStock         decimal.Decimal
	UnitCost         decimal.Decimal
	UpdatedAt        time.Time
}

// Available = Quantity - ReservedQuantity.
func (l *InventoryLevel) Available() decimal.Decimal {
	return l.Quantity.Sub(l.ReservedQuantity)
}
