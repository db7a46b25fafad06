package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

// TransferHandler maneja los traslados entre sucursales (protegido).
type TransferHandler struct {
	uc transferService
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc transferService) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Request godoc
// @Summary      Solicitar traslado
// @Description  Descuenta en origen y suma en destino al momento de la solicitud; queda en tránsito.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RequestTransferRequest  true  "product_id, from_branch_id, to_branch_id, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *TransferHandler) Request(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.RequestTransferRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	t, err := h.uc.Request(c.Context(), inventory.RequestTransferInput{
		TenantID:     tenantID,
		UserID:       userID,
		ProductID:    in.ProductID,
		FromBranchID: in.FromBranchID,
		ToBranchID:   in.ToBranchID,
		Quantity:     in.Quantity,
		Notes:        in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransferResponse(t))
}

// List godoc
// @Summary      Listar traslados
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        branch_id   query  string  false  "UUID de sucursal (origen o destino)"
// @Param        product_id  query  string  false  "UUID del producto"
// @Param        status      query  string  false  "pending, in_transit, received, cancelled"
// @Param        limit       query  int     false  "máx. 100"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {object}  dto.TransferListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	branchID, valid := queryUUID(c, "branch_id")
	if !valid {
		return invalidID(c, "branch_id")
	}
	productID, valid := queryUUID(c, "product_id")
	if !valid {
		return invalidID(c, "product_id")
	}
	p := page(c)
	list, err := h.uc.List(c.Context(), tenantID, repository.TransferFilter{
		BranchID:  branchID,
		ProductID: productID,
		Status:    c.Query("status"),
	}, p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TransferListResponse{
		Items: dto.ToTransferResponses(list),
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Count: len(list)},
	})
}

// GetByID godoc
// @Summary      Obtener traslado con sus movimientos
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	t, err := h.uc.Get(c.Context(), tenantID, id)
	if err != nil {
		return writeError(c, err)
	}
	movements, err := h.uc.Movements(c.Context(), tenantID, id)
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.ToTransferResponse(t)
	resp.Movements = dto.ToMovementResponses(movements)
	return c.JSON(resp)
}

// Confirm godoc
// @Summary      Confirmar recepción
// @Description  Solo el administrador de la sucursal destino. No mueve stock.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/{id}/confirm [post]
func (h *TransferHandler) Confirm(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	t, err := h.uc.Confirm(c.Context(), tenantID, id, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToTransferResponse(t))
}

// Cancel godoc
// @Summary      Cancelar traslado
// @Description  Revierte los movimientos con ajustes compensatorios. Solo pending o in_transit.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true   "UUID del traslado"
// @Param        body  body  dto.CancelTransferRequest  false  "notas"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var in dto.CancelTransferRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	t, err := h.uc.Cancel(c.Context(), tenantID, id, userID, in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToTransferResponse(t))
}
