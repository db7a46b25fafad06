package inventory

import (
	"context"

	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Movements    repository.InventoryMovementRepository
	Stock        repository.StockRepository
	Reservations repository.ReservationRepository
	Transfers    repository.TransferRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad entre snapshot y ledger: si fn falla, no se confirma nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// NotificationSink recibe notificaciones best-effort. Sus fallas nunca revierten un movimiento.
type NotificationSink interface {
	Notify(ctx context.Context, n entity.Notification) error
}

// ValuationRenderer genera la representación de un reporte de valorización (PDF, XML...).
type ValuationRenderer interface {
	Render(ctx context.Context, report *ValuationReport) ([]byte, error)
	ContentType() string
}
