package repository

import (
	"context"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
)

// ProductRepository es el puerto de lectura hacia el catálogo (el catálogo es dueño del producto).
type ProductRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
}
