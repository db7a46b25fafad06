package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeEntry       = "entry"        // entrada (compra, producción)
	MovementTypeExit        = "exit"         // salida genérica
	MovementTypeSale        = "sale"         // venta
	MovementTypeReturn      = "return"       // devolución a proveedor
	MovementTypeAdjustment  = "adjustment"   // ajuste manual (único que puede dejar stock negativo)
	MovementTypeTransferOut = "transfer_out" // salida por traslado
	MovementTypeTransferIn  = "transfer_in"  // entrada por traslado
)

// Dirección de un ajuste. Por defecto un ajuste suma.
const (
	AdjustIncrease = "increase"
	AdjustDecrease = "decrease"
)

// InventoryMovement es un registro inmutable del ledger de inventario.
// Quantity es el efecto con signo sobre el snapshot (NewStock - PreviousStock).
type InventoryMovement struct {
	ID            string
	TenantID      string
	ProductID     string
	BranchID      string
	Type          string
	Quantity      decimal.Decimal
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	UnitCost      *decimal.Decimal
	ReferenceType string
	ReferenceID   string
	TransferID    string
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}

// IsValidMovementType indica si t es un tipo de movimiento conocido.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeSale, MovementTypeReturn,
		MovementTypeAdjustment, MovementTypeTransferOut, MovementTypeTransferIn:
		return true
	}
	return false
}

// IsOutbound indica si el tipo resta existencia (con piso en cero).
func IsOutbound(t string) bool {
	switch t {
	case MovementTypeExit, MovementTypeSale, MovementTypeReturn, MovementTypeTransferOut:
		return true
	}
	return false
}
