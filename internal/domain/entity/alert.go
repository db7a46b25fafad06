package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de alerta de inventario.
const (
	AlertTypeLowStock   = "low_stock"
	AlertTypeOutOfStock = "out_of_stock"
	AlertTypeOverstock  = "overstock"
)

// Estados de una alerta.
const (
	AlertStatusActive       = "active"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusDismissed    = "dismissed"
)

// Alert es una señal derivada (no autoritativa) de que un snapshot cruzó un umbral.
// BranchID vacío indica una alerta a nivel de producto.
type Alert struct {
	ID                string
	TenantID          string
	ProductID         string
	BranchID          string
	AlertType         string
	CurrentQuantity   decimal.Decimal
	ThresholdQuantity decimal.Decimal
	Status            string
	AcknowledgedBy    string
	AcknowledgedAt    *time.Time
	DismissedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Key identifica la alerta para deduplicación (producto, sucursal, tipo).
func (a *Alert) Key() string {
	return a.ProductID + "|" + a.BranchID + "|" + a.AlertType
}

// IsOpen indica si la alerta sostiene su llave: activa o reconocida.
func (a *Alert) IsOpen() bool {
	return a.Status == AlertStatusActive || a.Status == AlertStatusAcknowledged
}
