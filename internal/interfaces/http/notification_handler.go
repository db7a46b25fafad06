package http

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/inventario-sucursales/internal/infrastructure/ws"
)

// NotificationHandler entrega notificaciones: historial por REST y push por websocket.
type NotificationHandler struct {
	repo notificationLister
	hub  *ws.Hub
	log  zerolog.Logger
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(repo notificationLister, hub *ws.Hub, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{repo: repo, hub: hub, log: log}
}

// List godoc
// @Summary      Notificaciones del usuario
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx. 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.NotificationListResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	p := page(c)
	list, err := h.repo.ListByUser(c.Context(), tenantID, userID, p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NotificationListResponse{
		Items: dto.ToNotificationResponses(list),
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Count: len(list)},
	})
}

// RequireUpgrade rechaza peticiones que no son upgrade a websocket.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream mantiene la conexión websocket registrada en el hub hasta que el cliente cierra.
// Los locals del token se copian al websocket.Conn por fiber.
func (h *NotificationHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		tenantID, _ := conn.Locals(LocalTenantID).(string)
		userID, _ := conn.Locals(LocalUserID).(string)
		if tenantID == "" || userID == "" {
			_ = conn.Close()
			return
		}
		ctx := context.Background()
		h.hub.Register(ctx, tenantID, userID, conn)
		defer h.hub.Unregister(ctx, tenantID, userID, conn)

		// Solo lectura para detectar el cierre; el cliente no envía comandos.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.log.Debug().Err(err).Str("user_id", userID).Msg("ws: conexión cerrada")
				return
			}
		}
	})
}
