package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// RequestTransferRequest body para POST /api/inventory/transfers.
type RequestTransferRequest struct {
	ProductID    string          `json:"product_id" validate:"required,uuid"`
	FromBranchID string          `json:"from_branch_id" validate:"required,uuid"`
	ToBranchID   string          `json:"to_branch_id" validate:"required,uuid,nefield=FromBranchID"`
	Quantity     decimal.Decimal `json:"quantity" swaggertype:"string" validate:"decimal_gt0"`
	Notes        string          `json:"notes,omitempty" validate:"max=500"`
}

// CancelTransferRequest body opcional para POST /api/inventory/transfers/:id/cancel.
type CancelTransferRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=500"`
}

// TransferResponse un traslado; Movements solo en el detalle.
type TransferResponse struct {
	ID           string             `json:"id"`
	ProductID    string             `json:"product_id"`
	FromBranchID string             `json:"from_branch_id"`
	ToBranchID   string             `json:"to_branch_id"`
	Quantity     decimal.Decimal    `json:"quantity" swaggertype:"string"`
	Status       string             `json:"status"`
	RequestedBy  string             `json:"requested_by"`
	ConfirmedBy  string             `json:"confirmed_by,omitempty"`
	CancelledBy  string             `json:"cancelled_by,omitempty"`
	Notes        string             `json:"notes,omitempty"`
	RequestedAt  time.Time          `json:"requested_at"`
	ConfirmedAt  *time.Time         `json:"confirmed_at,omitempty"`
	CancelledAt  *time.Time         `json:"cancelled_at,omitempty"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Movements    []MovementResponse `json:"movements,omitempty"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ToTransferResponse mapea el traslado.
func ToTransferResponse(t *entity.Transfer) TransferResponse {
	return TransferResponse{
		ID:           t.ID,
		ProductID:    t.ProductID,
		FromBranchID: t.FromBranchID,
		ToBranchID:   t.ToBranchID,
		Quantity:     t.Quantity,
		Status:       t.Status,
		RequestedBy:  t.RequestedBy,
		ConfirmedBy:  t.ConfirmedBy,
		CancelledBy:  t.CancelledBy,
		Notes:        t.Notes,
		RequestedAt:  t.RequestedAt,
		ConfirmedAt:  t.ConfirmedAt,
		CancelledAt:  t.CancelledAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// ToTransferResponses mapea una lista; nunca devuelve nil.
func ToTransferResponses(list []*entity.Transfer) []TransferResponse {
	out := make([]TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, ToTransferResponse(t))
	}
	return out
}
