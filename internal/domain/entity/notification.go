package entity

import (
	"encoding/json"
	"time"
)

// Tipos de notificación emitidos por el inventario.
const (
	NotificationStockMovement    = "stock_movement"
	NotificationTransferRequest  = "transfer_requested"
	NotificationTransferReceived = "transfer_received"
	NotificationTransferCancel   = "transfer_cancelled"
	NotificationStockAlert       = "stock_alert"
)

// Notification es el mensaje entregado al Notification Sink (best-effort).
type Notification struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenant_id"`
	UserID    string          `json:"user_id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	ReadAt    *time.Time      `json:"read_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
