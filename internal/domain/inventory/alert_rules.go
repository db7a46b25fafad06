package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// AlertCondition es una condición de umbral detectada sobre un snapshot.
type AlertCondition struct {
	AlertType string
	Threshold decimal.Decimal
}

// ClassifyStock compara la existencia física (quantity) contra los umbrales del producto.
// out_of_stock (quantity <= 0) reemplaza a low_stock; overstock solo aplica con maxStock > 0.
func ClassifyStock(quantity, minStock, maxStock decimal.Decimal) []AlertCondition {
	var out []AlertCondition
	switch {
	case quantity.LessThanOrEqual(decimal.Zero):
		out = append(out, AlertCondition{AlertType: entity.AlertTypeOutOfStock, Threshold: decimal.Zero})
	case minStock.GreaterThan(decimal.Zero) && quantity.LessThan(minStock):
		out = append(out, AlertCondition{AlertType: entity.AlertTypeLowStock, Threshold: minStock})
	}
	if maxStock.GreaterThan(decimal.Zero) && quantity.GreaterThan(maxStock) {
		out = append(out, AlertCondition{AlertType: entity.AlertTypeOverstock, Threshold: maxStock})
	}
	return out
}
