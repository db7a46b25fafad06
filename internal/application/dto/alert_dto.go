package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// AlertResponse una alerta de inventario.
type AlertResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	BranchID          string          `json:"branch_id,omitempty"`
	AlertType         string          `json:"alert_type"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity" swaggertype:"string"`
	ThresholdQuantity decimal.Decimal `json:"threshold_quantity" swaggertype:"string"`
	Status            string          `json:"status"`
	AcknowledgedBy    string          `json:"acknowledged_by,omitempty"`
	AcknowledgedAt    *time.Time      `json:"acknowledged_at,omitempty"`
	DismissedAt       *time.Time      `json:"dismissed_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// AlertListResponse alertas activas.
type AlertListResponse struct {
	Items []AlertResponse `json:"items"`
	Total int             `json:"total"`
}

// ToAlertResponse mapea la alerta.
func ToAlertResponse(a *entity.Alert) AlertResponse {
	return AlertResponse{
		ID:                a.ID,
		ProductID:         a.ProductID,
		BranchID:          a.BranchID,
		AlertType:         a.AlertType,
		CurrentQuantity:   a.CurrentQuantity,
		ThresholdQuantity: a.ThresholdQuantity,
		Status:            a.Status,
		AcknowledgedBy:    a.AcknowledgedBy,
		AcknowledgedAt:    a.AcknowledgedAt,
		DismissedAt:       a.DismissedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// ToAlertResponses mapea una lista; nunca devuelve nil.
func ToAlertResponses(list []*entity.Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, ToAlertResponse(a))
	}
	return out
}
