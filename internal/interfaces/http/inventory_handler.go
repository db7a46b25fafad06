package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

// InventoryHandler maneja movimientos y consultas de stock (protegido).
type InventoryHandler struct {
	uc movementService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc movementService) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  entry, exit, sale, return o adjustment sobre una sucursal. Las salidas no pueden superar el disponible.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, branch_id, type, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	tenantID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.RecordMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	m, err := h.uc.RecordMovement(c.Context(), inventory.MovementInput{
		TenantID:        tenantID,
		UserID:          userID,
		ProductID:       in.ProductID,
		BranchID:        in.BranchID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		AdjustDirection: in.AdjustDirection,
		UnitCost:        in.UnitCost,
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		Notes:           in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(m))
}

// ListMovements godoc
// @Summary      Kardex: movimientos del ledger
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "UUID del producto"
// @Param        branch_id    query  string  false  "UUID de la sucursal"
// @Param        transfer_id  query  string  false  "UUID del traslado"
// @Param        type         query  string  false  "tipo de movimiento"
// @Param        from         query  string  false  "desde (RFC3339)"
// @Param        to           query  string  false  "hasta (RFC3339)"
// @Param        limit        query  int     false  "máx. 100"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	tenantID, _, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var filter repository.MovementFilter
	for name, dst := range map[string]*string{
		"product_id":  &filter.ProductID,
		"branch_id":   &filter.BranchID,
		"transfer_id": &filter.TransferID,
	} {
		v, valid := queryUUID(c, name)
		if !valid {
			return invalidID(c, name)
		}
		*dst = v
	}
	filter.Type = c.Query("type")
	for name, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: name + " debe ser RFC3339"})
		}
		*dst = &t
	}
	p := page(c)
	list, err := h.uc.ListMovements(c.Context(), tenantID, filter, p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: dto.ToMovementResponses(list),
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Count: len(list)},
	})
}

// ListStock godoc
// @Summary      Stock por sucursal o por producto
// @Description  Requiere branch_id (paginado) o product_id (todas las sucursales).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id   query  string  false  "UUID de la sucursal"
// @Param        product_id  query  string  false  "UUID del producto"
// @Param        limit       query  int     false  "máx. 100"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {object}  dto.InventoryLevelListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
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
	switch {
	case branchID != "":
		list, err := h.uc.ListStockByBranch(c.Context(), tenantID, branchID, p.Limit, p.Offset)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(dto.InventoryLevelListResponse{
			Items: dto.ToInventoryLevelResponses(list),
			Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Count: len(list)},
		})
	case productID != "":
		list, err := h.uc.ListStockByProduct(c.Context(), tenantID, productID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(dto.InventoryLevelListResponse{
			Items: dto.ToInventoryLevelResponses(list),
			Page:  dto.PageResponse{Limit: len(list), Count: len(list)},
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id o product_id es requerido"})
}

// GetStock godoc
// @Summary      Snapshot de un producto en una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "UUID del producto"
// @Param        branch_id   path  string  true  "UUID de la sucursal"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{product_id}/{branch_id} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	key, ok, err := stockKeyFrom(c)
	if !ok {
		return err
	}
	s, err := h.uc.GetStock(c.Context(), key.tenantID, key.productID, key.branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToStockResponse(s))
}

// VerifySnapshot godoc
// @Summary      Compara el snapshot con el replay del ledger
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "UUID del producto"
// @Param        branch_id   path  string  true  "UUID de la sucursal"
// @Success      200  {object}  inventory.SnapshotCheck
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{product_id}/{branch_id}/verify [get]
func (h *InventoryHandler) VerifySnapshot(c *fiber.Ctx) error {
	key, ok, err := stockKeyFrom(c)
	if !ok {
		return err
	}
	check, err := h.uc.VerifySnapshot(c.Context(), key.tenantID, key.productID, key.branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(check)
}

// RebuildSnapshot godoc
// @Summary      Reconstruye el snapshot desde el ledger (admin)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "UUID del producto"
// @Param        branch_id   path  string  true  "UUID de la sucursal"
// @Success      200  {object}  inventory.SnapshotCheck
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{product_id}/{branch_id}/rebuild [post]
func (h *InventoryHandler) RebuildSnapshot(c *fiber.Ctx) error {
	key, ok, err := stockKeyFrom(c)
	if !ok {
		return err
	}
	check, err := h.uc.RebuildSnapshot(c.Context(), key.tenantID, key.productID, key.branchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(check)
}

type stockKey struct {
	tenantID, productID, branchID string
}

// stockKeyFrom valida identidad y los UUID de la ruta; ok=false si ya se respondió.
func stockKeyFrom(c *fiber.Ctx) (stockKey, bool, error) {
	tenantID, _, ok := identity(c)
	if !ok {
		return stockKey{}, false, unauthorized(c)
	}
	productID, ok := paramUUID(c, "product_id")
	if !ok {
		return stockKey{}, false, invalidID(c, "product_id")
	}
	branchID, ok := paramUUID(c, "branch_id")
	if !ok {
		return stockKey{}, false, invalidID(c, "branch_id")
	}
	return stockKey{tenantID: tenantID, productID: productID, branchID: branchID}, true, nil
}
