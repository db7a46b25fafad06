package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-sucursales/internal/infrastructure/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Movements     movementService
	Reservations  reservationService
	Transfers     transferService
	Alerts        alertService
	Valuation     valuationService
	Notifications notificationLister
	Hub           *ws.Hub
	JWTSecret     string
	Production    bool
	RateLimit     int // solicitudes por minuto e IP; 0 = sin límite
	Log           zerolog.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	auth := AuthMiddleware(deps.JWTSecret)
	writers := RequireRole(RoleAdmin, RoleBodeguero)
	sellers := RequireRole(RoleAdmin, RoleBodeguero, RoleVendedor)
	adminOnly := RequireRole(RoleAdmin)

	api := app.Group("/api", SecureHeaders(deps.Production), RateLimit(deps.RateLimit, time.Minute), auth)
	inv := api.Group("/inventory")

	// Movimientos y stock
	invHandler := NewInventoryHandler(deps.Movements)
	inv.Post("/movements", writers, invHandler.RecordMovement)
	inv.Get("/movements", invHandler.ListMovements)
	inv.Get("/stock", invHandler.ListStock)
	inv.Get("/stock/:product_id/:branch_id", invHandler.GetStock)
	inv.Get("/stock/:product_id/:branch_id/verify", invHandler.VerifySnapshot)
	inv.Post("/stock/:product_id/:branch_id/rebuild", adminOnly, invHandler.RebuildSnapshot)

	// Apartados (el vendedor aparta para sus pedidos)
	resHandler := NewReservationHandler(deps.Reservations)
	inv.Post("/reservations", sellers, resHandler.Create)
	inv.Get("/reservations", resHandler.List)
	inv.Get("/reservations/:id", resHandler.GetByID)
	inv.Post("/reservations/:id/cancel", sellers, resHandler.Cancel)
	inv.Post("/reservations/:id/fulfill", writers, resHandler.Fulfill)

	// Traslados; la confirmación verifica además el admin de la sucursal destino
	trHandler := NewTransferHandler(deps.Transfers)
	inv.Post("/transfers", writers, trHandler.Request)
	inv.Get("/transfers", trHandler.List)
	inv.Get("/transfers/:id", trHandler.GetByID)
	inv.Post("/transfers/:id/confirm", trHandler.Confirm)
	inv.Post("/transfers/:id/cancel", writers, trHandler.Cancel)

	// Alertas
	alertHandler := NewAlertHandler(deps.Alerts)
	inv.Post("/alerts/evaluate", adminOnly, alertHandler.Evaluate)
	inv.Get("/alerts", alertHandler.ListActive)
	inv.Post("/alerts/:id/acknowledge", writers, alertHandler.Acknowledge)
	inv.Post("/alerts/:id/dismiss", writers, alertHandler.Dismiss)

	// Valorización
	valHandler := NewValuationHandler(deps.Valuation)
	inv.Get("/valuation", valHandler.Summary)
	inv.Get("/valuation/detail", valHandler.Detail)

	// Notificaciones
	if deps.Notifications != nil {
		notifHandler := NewNotificationHandler(deps.Notifications, deps.Hub, deps.Log)
		api.Get("/notifications", notifHandler.List)
		if deps.Hub != nil {
			app.Get("/ws/notifications", RequireUpgrade, auth, notifHandler.Stream())
		}
	}
}
