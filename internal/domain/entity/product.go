package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo visto desde el inventario (solo lectura).
// El catálogo es dueño de nombre, umbrales y costo; aquí solo se consultan por ID.
type Product struct {
	ID        string
	TenantID  string
	SKU       string
	Name      string
	MinStock  decimal.Decimal // 0 = sin umbral mínimo
	MaxStock  decimal.Decimal // 0 = sin umbral máximo
	UnitCost  decimal.Decimal
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
