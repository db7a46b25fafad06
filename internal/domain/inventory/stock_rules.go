// Package inventory contiene las reglas puras del motor de inventario (sin I/O):
// convención de signos del ledger, máquina de estados de traslados y umbrales de alertas.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sucursales/internal/domain"
	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// ComputeNewStock aplica la convención de signos del ledger sobre previousStock.
//
//   - entry, transfer_in: suman |quantity|.
//   - exit, sale, return, transfer_out: restan |quantity| con piso en cero.
//   - adjustment: suma |quantity|, o resta sin piso si direction == decrease.
//
// Falla con ErrInvalidMovement si quantity <= 0 o el tipo es desconocido.
func ComputeNewStock(previousStock decimal.Decimal, movementType string, quantity decimal.Decimal, direction string) (decimal.Decimal, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidMovement
	}
	switch movementType {
	case entity.MovementTypeEntry, entity.MovementTypeTransferIn:
		return previousStock.Add(quantity), nil
	case entity.MovementTypeExit, entity.MovementTypeSale, entity.MovementTypeReturn, entity.MovementTypeTransferOut:
		next := previousStock.Sub(quantity)
		if next.LessThan(decimal.Zero) {
			// Piso en cero. Si ya estaba negativo (por un ajuste) queda igual.
			return decimal.Min(previousStock, decimal.Zero), nil
		}
		return next, nil
	case entity.MovementTypeAdjustment:
		switch direction {
		case "", entity.AdjustIncrease:
			return previousStock.Add(quantity), nil
		case entity.AdjustDecrease:
			return previousStock.Sub(quantity), nil
		}
		return decimal.Zero, domain.ErrInvalidMovement
	}
	return decimal.Zero, domain.ErrInvalidMovement
}

// Effect es el efecto con signo que se guarda en el ledger.
func Effect(previousStock, newStock decimal.Decimal) decimal.Decimal {
	return newStock.Sub(previousStock)
}
