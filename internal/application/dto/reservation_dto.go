package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// CreateReservationRequest body para POST /api/inventory/reservations.
type CreateReservationRequest struct {
	ProductID       string          `json:"product_id" validate:"required,uuid"`
	BranchID        string          `json:"branch_id" validate:"required,uuid"`
	Quantity        decimal.Decimal `json:"quantity" swaggertype:"string" validate:"decimal_gt0"`
	ReservationType string          `json:"reservation_type,omitempty" validate:"max=30"`
	ReferenceType   string          `json:"reference_type,omitempty" validate:"max=50"`
	ReferenceID     string          `json:"reference_id,omitempty" validate:"max=100"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
}

// ReservationResponse un apartado.
type ReservationResponse struct {
	ID                  string          `json:"id"`
	ProductID           string          `json:"product_id"`
	BranchID            string          `json:"branch_id"`
	Quantity            decimal.Decimal `json:"quantity" swaggertype:"string"`
	ReservationType     string          `json:"reservation_type"`
	ReferenceType       string          `json:"reference_type,omitempty"`
	ReferenceID         string          `json:"reference_id,omitempty"`
	ExpiresAt           *time.Time      `json:"expires_at,omitempty"`
	Status              string          `json:"status"`
	CreatedBy           string          `json:"created_by"`
	FulfilledMovementID string          `json:"fulfilled_movement_id,omitempty"`
	CancelledBy         string          `json:"cancelled_by,omitempty"`
	CancelledAt         *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ReservationListResponse lista paginada de apartados.
type ReservationListResponse struct {
	Items []ReservationResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// FulfillReservationResponse apartado cumplido y la salida que generó.
type FulfillReservationResponse struct {
	Reservation ReservationResponse `json:"reservation"`
	Movement    MovementResponse    `json:"movement"`
}

// ToReservationResponse mapea el apartado.
func ToReservationResponse(r *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:                  r.ID,
		ProductID:           r.ProductID,
		BranchID:            r.BranchID,
		Quantity:            r.Quantity,
		ReservationType:     r.ReservationType,
		ReferenceType:       r.ReferenceType,
		ReferenceID:         r.ReferenceID,
		ExpiresAt:           r.ExpiresAt,
		Status:              r.Status,
		CreatedBy:           r.CreatedBy,
		FulfilledMovementID: r.FulfilledMovementID,
		CancelledBy:         r.CancelledBy,
		CancelledAt:         r.CancelledAt,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// ToReservationResponses mapea una lista; nunca devuelve nil.
func ToReservationResponses(list []*entity.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, ToReservationResponse(r))
	}
	return out
}
