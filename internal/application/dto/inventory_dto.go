package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// RecordMovementRequest body para POST /api/inventory/movements.
// Los traslados no se registran aquí: usan /api/inventory/transfers.
type RecordMovementRequest struct {
	ProductID       string           `json:"product_id" validate:"required,uuid"`
	BranchID        string           `json:"branch_id" validate:"required,uuid"`
	Type            string           `json:"type" validate:"required,oneof=entry exit sale return adjustment"`
	Quantity        decimal.Decimal  `json:"quantity" swaggertype:"string" validate:"decimal_gt0"`
	AdjustDirection string           `json:"adjust_direction,omitempty" validate:"omitempty,oneof=increase decrease"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty" swaggertype:"string" validate:"omitempty,decimal_gte0"`
	ReferenceType   string           `json:"reference_type,omitempty" validate:"max=50"`
	ReferenceID     string           `json:"reference_id,omitempty" validate:"max=100"`
	Notes           string           `json:"notes,omitempty" validate:"max=500"`
}

// MovementResponse un registro del ledger (kardex).
type MovementResponse struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	BranchID      string           `json:"branch_id"`
	Type          string           `json:"type"`
	Quantity      decimal.Decimal  `json:"quantity" swaggertype:"string"`
	PreviousStock decimal.Decimal  `json:"previous_stock" swaggertype:"string"`
	NewStock      decimal.Decimal  `json:"new_stock" swaggertype:"string"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty" swaggertype:"string"`
	ReferenceType string           `json:"reference_type,omitempty"`
	ReferenceID   string           `json:"reference_id,omitempty"`
	TransferID    string           `json:"transfer_id,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	CreatedBy     string           `json:"created_by"`
	CreatedAt     time.Time        `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockResponse snapshot de un producto en una sucursal.
type StockResponse struct {
	ProductID        string          `json:"product_id"`
	BranchID         string          `json:"branch_id"`
	Quantity         decimal.Decimal `json:"quantity" swaggertype:"string"`
	ReservedQuantity decimal.Decimal `json:"reserved_quantity" swaggertype:"string"`
	Available        decimal.Decimal `json:"available" swaggertype:"string"`
	LastMovementAt   *time.Time      `json:"last_movement_at,omitempty"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// InventoryLevelResponse snapshot con datos de producto y sucursal.
type InventoryLevelResponse struct {
	ProductID        string          `json:"product_id"`
	SKU              string          `json:"sku"`
	ProductName      string          `json:"product_name"`
	BranchID         string          `json:"branch_id"`
	BranchName       string          `json:"branch_name"`
	Quantity         decimal.Decimal `json:"quantity" swaggertype:"string"`
	ReservedQuantity decimal.Decimal `json:"reserved_quantity" swaggertype:"string"`
	Available        decimal.Decimal `json:"available" swaggertype:"string"`
	MinStock         decimal.Decimal `json:"min_stock" swaggertype:"string"`
	MaxStock         decimal.Decimal `json:"max_stock" swaggertype:"string"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// InventoryLevelListResponse lista de snapshots.
type InventoryLevelListResponse struct {
	Items []InventoryLevelResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

// ToMovementResponse mapea la entidad del ledger.
func ToMovementResponse(m *entity.InventoryMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		BranchID:      m.BranchID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		UnitCost:      m.UnitCost,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		TransferID:    m.TransferID,
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// ToMovementResponses mapea una lista; nunca devuelve nil.
func ToMovementResponses(list []*entity.InventoryMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}

// ToStockResponse mapea el snapshot.
func ToStockResponse(s *entity.Stock) StockResponse {
	return StockResponse{
		ProductID:        s.ProductID,
		BranchID:         s.BranchID,
		Quantity:         s.Quantity,
		ReservedQuantity: s.ReservedQuantity,
		Available:        s.Available(),
		LastMovementAt:   s.LastMovementAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// ToInventoryLevelResponses mapea la vista de lectura.
func ToInventoryLevelResponses(list []*entity.InventoryLevel) []InventoryLevelResponse {
	out := make([]InventoryLevelResponse, 0, len(list))
	for _, l := range list {
		out = append(out, InventoryLevelResponse{
			ProductID:        l.ProductID,
			SKU:              l.SKU,
			ProductName:      l.ProductName,
			BranchID:         l.BranchID,
			BranchName:       l.BranchName,
			Quantity:         l.Quantity,
			ReservedQuantity: l.ReservedQuantity,
			Available:        l.Available(),
			MinStock:         l.MinStock,
			MaxStock:         l.MaxStock,
			UpdatedAt:        l.UpdatedAt,
		})
	}
	return out
}
