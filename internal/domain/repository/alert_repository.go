package repository

import (
	"context"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// AlertRepository define el puerto de persistencia de alertas derivadas.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Alert, error)
	Update(ctx context.Context, alert *entity.Alert) error
	// ListActive devuelve alertas activas; branchID vacío = todas las sucursales.
	ListActive(ctx context.Context, tenantID, branchID string) ([]*entity.Alert, error)
	// ListOpen devuelve las alertas que aún sostienen su llave: activas y reconocidas.
	ListOpen(ctx context.Context, tenantID string) ([]*entity.Alert, error)
}
