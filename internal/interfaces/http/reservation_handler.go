package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

// ReservationHandler maneja los apartados de stock (protegido).
type ReservationHandler struct {
	uc reservationService
}

// NewReservationHandler construye el handler.
func NewReservationHandler(uc reservationService) *ReservationHandler {
	return &ReservationHandler{uc: uc}
}

// Create godoc
// @Summary      Apartar stock
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReservationRequest  true  "product_id, branch_id, quantity"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations [post]
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateReservationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	r, err := h.uc.Create(c.Context(), inventory.CreateReservationInput{
		TenantID:        tenantID,
		UserID:          userID,
		ProductID:       in.ProductID,
		BranchID:        in.BranchID,
		Quantity:        in.Quantity,
		ReservationType: in.ReservationType,
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		ExpiresAt:       in.ExpiresAt,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToReservationResponse(r))
}

// List godoc
// @Summary      Listar apartados
// @Description  Por defecto solo los activos.
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "UUID del producto"
// @Param        branch_id       query  string  false  "UUID de la sucursal"
// @Param        reference_type  query  string  false  "tipo de referencia"
// @Param        reference_id    query  string  false  "id de referencia"
// @Param        status          query  string  false  "active, fulfilled, cancelled, expired"
// @Param        limit           query  int     false  "máx. 100"
// @Param        offset          query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ReservationListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations [get]
func (h *ReservationHandler) List(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	productID, valid := queryUUID(c, "product_id")
	if !valid {
		return invalidID(c, "product_id")
	}
	branchID, valid := queryUUID(c, "branch_id")
	if !valid {
		return invalidID(c, "branch_id")
	}
	filter := repository.ReservationFilter{
		ProductID:     productID,
		BranchID:      branchID,
		ReferenceType: c.Query("reference_type"),
		ReferenceID:   c.Query("reference_id"),
		Status:        c.Query("status"),
	}
	p := page(c)
	list, err := h.uc.List(c.Context(), tenantID, filter, p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReservationListResponse{
		Items: dto.ToReservationResponses(list),
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Count: len(list)},
	})
}

// GetByID godoc
// @Summary      Obtener apartado
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del apartado"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations/{id} [get]
func (h *ReservationHandler) GetByID(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	r, err := h.uc.Get(c.Context(), tenantID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToReservationResponse(r))
}

// Cancel godoc
// @Summary      Cancelar apartado
// @Description  Libera la cantidad apartada. Solo apartados activos.
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del apartado"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	r, err := h.uc.Cancel(c.Context(), tenantID, id, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToReservationResponse(r))
}

// Fulfill godoc
// @Summary      Cumplir apartado
// @Description  Convierte el apartado en una salida del ledger.
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del apartado"
// @Success      200  {object}  dto.FulfillReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations/{id}/fulfill [post]
func (h *ReservationHandler) Fulfill(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	r, m, err := h.uc.Fulfill(c.Context(), tenantID, id, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FulfillReservationResponse{
		Reservation: dto.ToReservationResponse(r),
		Movement:    dto.ToMovementResponse(m),
	})
}
