package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ValuationHandler expone la valorización del inventario (protegido).
type ValuationHandler struct {
	uc valuationService
}

// NewValuationHandler construye el handler.
func NewValuationHandler(uc valuationService) *ValuationHandler {
	return &ValuationHandler{uc: uc}
}

// Summary godoc
// @Summary      Valor total del inventario
// @Description  Σ cantidad × costo unitario; opcionalmente de una sucursal.
// @Tags         valuation
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "UUID de la sucursal"
// @Success      200  {object}  inventory.ValuationReport
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/valuation [get]
func (h *ValuationHandler) Summary(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	branchID, valid := queryUUID(c, "branch_id")
	if !valid {
		return invalidID(c, "branch_id")
	}
	report, err := h.uc.Valuation(c.Context(), tenantID, branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// Detail godoc
// @Summary      Valorización por producto
// @Description  format=json (defecto), pdf o xml.
// @Tags         valuation
// @Security     Bearer
// @Produce      json,application/pdf,application/xml
// @Param        branch_id  query  string  false  "UUID de la sucursal"
// @Param        format     query  string  false  "json, pdf, xml"
// @Success      200  {object}  inventory.ValuationReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/valuation/detail [get]
func (h *ValuationHandler) Detail(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	branchID, valid := queryUUID(c, "branch_id")
	if !valid {
		return invalidID(c, "branch_id")
	}
	format := c.Query("format", "json")
	if format == "json" {
		report, err := h.uc.ValuationDetail(c.Context(), tenantID, branchID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(report)
	}
	body, contentType, err := h.uc.ExportDetail(c.Context(), tenantID, branchID, format)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="valorizacion.%s"`, format))
	return c.Send(body)
}
