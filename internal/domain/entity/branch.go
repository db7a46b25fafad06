package entity

import "time"

// Branch representa una sucursal del tenant donde se almacena inventario.
// AdminUserID es el único usuario autorizado a confirmar traslados hacia esta sucursal.
type Branch struct {
	ID          string
	TenantID    string
	Name        string
	Address     string
	IsActive    bool
	AdminUserID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
