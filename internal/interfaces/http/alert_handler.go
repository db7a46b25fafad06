package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sucursales/internal/application/dto"
)

// AlertHandler maneja las alertas de stock (protegido).
type AlertHandler struct {
	uc alertService
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc alertService) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// Evaluate godoc
// @Summary      Evaluar alertas del tenant
// @Description  Crea, refresca o retira alertas según los umbrales de cada producto.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  inventory.AlertSummary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts/evaluate [post]
func (h *AlertHandler) Evaluate(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	summary, err := h.uc.Evaluate(c.Context(), tenantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// ListActive godoc
// @Summary      Alertas activas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "UUID de la sucursal"
// @Success      200  {object}  dto.AlertListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts [get]
func (h *AlertHandler) ListActive(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	branchID, valid := queryUUID(c, "branch_id")
	if !valid {
		return invalidID(c, "branch_id")
	}
	list, err := h.uc.ListActive(c.Context(), tenantID, branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AlertListResponse{Items: dto.ToAlertResponses(list), Total: len(list)})
}

// Acknowledge godoc
// @Summary      Marcar alerta como vista
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	a, err := h.uc.Acknowledge(c.Context(), tenantID, id, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToAlertResponse(a))
}

// Dismiss godoc
// @Summary      Descartar alerta
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts/{id}/dismiss [post]
func (h *AlertHandler) Dismiss(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	a, err := h.uc.Dismiss(c.Context(), tenantID, id, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToAlertResponse(a))
}
