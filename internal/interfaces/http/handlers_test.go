package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sucursales/internal/application/dto"
	"github.com/jhoicas/inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/inventario-sucursales/internal/domain"
	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
	apphttp "github.com/jhoicas/inventario-sucursales/internal/interfaces/http"
)

const (
	productID = "11111111-1111-1111-1111-111111111111"
	branchID  = "22222222-2222-2222-2222-222222222222"
	branchB   = "33333333-3333-3333-3333-333333333333"
	recordID  = "44444444-4444-4444-4444-444444444444"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeMovements struct {
	recordErr error
	lastInput inventory.MovementInput
	stock     *entity.Stock
	stockErr  error
	levels    []*entity.InventoryLevel
	filter    repository.MovementFilter
}

func (f *fakeMovements) RecordMovement(_ context.Context, in inventory.MovementInput) (*entity.InventoryMovement, error) {
	f.lastInput = in
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	return &entity.InventoryMovement{
		ID: recordID, TenantID: in.TenantID, ProductID: in.ProductID, BranchID: in.BranchID,
		Type: in.Type, Quantity: in.Quantity, PreviousStock: decimal.Zero, NewStock: in.Quantity,
		CreatedBy: in.UserID, CreatedAt: time.Now(),
	}, nil
}

func (f *fakeMovements) GetStock(_ context.Context, tenantID, pID, bID string) (*entity.Stock, error) {
	return f.stock, f.stockErr
}

func (f *fakeMovements) ListStockByBranch(_ context.Context, _, _ string, _, _ int) ([]*entity.InventoryLevel, error) {
	return f.levels, nil
}

func (f *fakeMovements) ListStockByProduct(_ context.Context, _, _ string) ([]*entity.InventoryLevel, error) {
	return f.levels, nil
}

func (f *fakeMovements) ListMovements(_ context.Context, _ string, filter repository.MovementFilter, _, _ int) ([]*entity.InventoryMovement, error) {
	f.filter = filter
	return nil, nil
}

func (f *fakeMovements) VerifySnapshot(_ context.Context, _, pID, bID string) (*inventory.SnapshotCheck, error) {
	return &inventory.SnapshotCheck{ProductID: pID, BranchID: bID, Consistent: true}, nil
}

func (f *fakeMovements) RebuildSnapshot(_ context.Context, _, pID, bID string) (*inventory.SnapshotCheck, error) {
	return &inventory.SnapshotCheck{ProductID: pID, BranchID: bID, Consistent: true}, nil
}

type fakeReservations struct {
	fulfillErr error
}

func (f *fakeReservations) Create(_ context.Context, in inventory.CreateReservationInput) (*entity.Reservation, error) {
	return &entity.Reservation{ID: recordID, ProductID: in.ProductID, BranchID: in.BranchID,
		Quantity: in.Quantity, Status: entity.ReservationStatusActive}, nil
}

func (f *fakeReservations) Cancel(_ context.Context, _, id, _ string) (*entity.Reservation, error) {
	return &entity.Reservation{ID: id, Status: entity.ReservationStatusCancelled}, nil
}

func (f *fakeReservations) Fulfill(_ context.Context, _, id, _ string) (*entity.Reservation, *entity.InventoryMovement, error) {
	if f.fulfillErr != nil {
		return nil, nil, f.fulfillErr
	}
	return &entity.Reservation{ID: id, Status: entity.ReservationStatusFulfilled, FulfilledMovementID: "m-1"},
		&entity.InventoryMovement{ID: "m-1", Type: entity.MovementTypeExit, Quantity: decimal.NewFromInt(-3)}, nil
}

func (f *fakeReservations) Get(_ context.Context, _, id string) (*entity.Reservation, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeReservations) List(_ context.Context, _ string, _ repository.ReservationFilter, _, _ int) ([]*entity.Reservation, error) {
	return nil, nil
}

type fakeTransfers struct {
	confirmErr error
}

func (f *fakeTransfers) Request(_ context.Context, in inventory.RequestTransferInput) (*entity.Transfer, error) {
	return &entity.Transfer{ID: recordID, FromBranchID: in.FromBranchID, ToBranchID: in.ToBranchID,
		Quantity: in.Quantity, Status: entity.TransferStatusInTransit}, nil
}

func (f *fakeTransfers) Confirm(_ context.Context, _, id, _ string) (*entity.Transfer, error) {
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return &entity.Transfer{ID: id, Status: entity.TransferStatusReceived}, nil
}

func (f *fakeTransfers) Cancel(_ context.Context, _, id, _, notes string) (*entity.Transfer, error) {
	return &entity.Transfer{ID: id, Status: entity.TransferStatusCancelled, Notes: notes}, nil
}

func (f *fakeTransfers) Get(_ context.Context, _, id string) (*entity.Transfer, error) {
	return &entity.Transfer{ID: id, Status: entity.TransferStatusInTransit}, nil
}

func (f *fakeTransfers) List(_ context.Context, _ string, _ repository.TransferFilter, _, _ int) ([]*entity.Transfer, error) {
	return nil, nil
}

func (f *fakeTransfers) Movements(_ context.Context, _, id string) ([]*entity.InventoryMovement, error) {
	return []*entity.InventoryMovement{
		{ID: "out", Type: entity.MovementTypeTransferOut, TransferID: id},
		{ID: "in", Type: entity.MovementTypeTransferIn, TransferID: id},
	}, nil
}

type fakeAlerts struct {
	transitionErr error
}

func (f *fakeAlerts) Evaluate(_ context.Context, _ string) (inventory.AlertSummary, error) {
	return inventory.AlertSummary{Created: 2, Retired: 1}, nil
}

func (f *fakeAlerts) ListActive(_ context.Context, _, _ string) ([]*entity.Alert, error) {
	return []*entity.Alert{{ID: recordID, AlertType: entity.AlertTypeLowStock, Status: entity.AlertStatusActive}}, nil
}

func (f *fakeAlerts) Acknowledge(_ context.Context, _, id, _ string) (*entity.Alert, error) {
	if f.transitionErr != nil {
		return nil, f.transitionErr
	}
	return &entity.Alert{ID: id, Status: entity.AlertStatusAcknowledged}, nil
}

func (f *fakeAlerts) Dismiss(_ context.Context, _, id, _ string) (*entity.Alert, error) {
	return &entity.Alert{ID: id, Status: entity.AlertStatusDismissed}, nil
}

type fakeValuation struct{}

func (fakeValuation) Valuation(_ context.Context, tenantID, _ string) (*inventory.ValuationReport, error) {
	return &inventory.ValuationReport{TenantID: tenantID, TotalValue: decimal.NewFromInt(18002)}, nil
}

func (fakeValuation) ValuationDetail(_ context.Context, tenantID, _ string) (*inventory.ValuationReport, error) {
	return &inventory.ValuationReport{TenantID: tenantID}, nil
}

func (fakeValuation) ExportDetail(_ context.Context, _, _, format string) ([]byte, string, error) {
	if format != "pdf" {
		return nil, "", domain.ErrInvalidInput
	}
	return []byte("%PDF-1.3"), "application/pdf", nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

type testDeps struct {
	movements    *fakeMovements
	reservations *fakeReservations
	transfers    *fakeTransfers
	alerts       *fakeAlerts
}

func newRouterApp() (*fiber.App, *testDeps) {
	d := &testDeps{
		movements:    &fakeMovements{},
		reservations: &fakeReservations{},
		transfers:    &fakeTransfers{},
		alerts:       &fakeAlerts{},
	}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Movements:    d.movements,
		Reservations: d.reservations,
		Transfers:    d.transfers,
		Alerts:       d.alerts,
		Valuation:    fakeValuation{},
		JWTSecret:    testJWTSecret,
	})
	return app, d
}

func call(t *testing.T, app *fiber.App, method, path, role string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var e dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

// ── Movimientos ───────────────────────────────────────────────────────────────

func TestRecordMovement_Creado(t *testing.T) {
	app, d := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/inventory/movements", "bodeguero", map[string]interface{}{
		"product_id": productID, "branch_id": branchID, "type": "entry", "quantity": "10",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var body dto.MovementResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, recordID, body.ID)
	assert.True(t, body.Quantity.Equal(decimal.NewFromInt(10)))

	assert.Equal(t, testTenantID, d.movements.lastInput.TenantID, "el tenant viene del token")
	assert.Equal(t, testUserID, d.movements.lastInput.UserID)
}

func TestRecordMovement_CantidadCeroEs400(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/inventory/movements", "admin", map[string]interface{}{
		"product_id": productID, "branch_id": branchID, "type": "entry", "quantity": "0",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Details, "Quantity: decimal_gt0")
}

func TestRecordMovement_TrasladoNoPermitido(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/inventory/movements", "admin", map[string]interface{}{
		"product_id": productID, "branch_id": branchID, "type": "transfer_out", "quantity": "1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecordMovement_StockInsuficienteEs409(t *testing.T) {
	app, d := newRouterApp()
	d.movements.recordErr = domain.ErrInsufficientStock
	resp := call(t, app, http.MethodPost, "/api/inventory/movements", "admin", map[string]interface{}{
		"product_id": productID, "branch_id": branchID, "type": "sale", "quantity": "5",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeError(t, resp).Code)
}

func TestRecordMovement_SucursalInactivaEs400(t *testing.T) {
	app, d := newRouterApp()
	d.movements.recordErr = domain.ErrInvalidMovement
	resp := call(t, app, http.MethodPost, "/api/inventory/movements", "admin", map[string]interface{}{
		"product_id": productID, "branch_id": branchID, "type": "entry", "quantity": "5",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_MOVEMENT", decodeError(t, resp).Code)
}

func TestRecordMovement_VendedorNoRegistra(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/inventory/movements", "vendedor", map[string]interface{}{
		"product_id": productID, "branch_id": branchID, "type": "entry", "quantity": "5",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRecordMovement_SinToken(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/inventory/movements", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListMovements_FiltroFechaInvalida(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodGet, "/api/inventory/movements?from=ayer", "vendedor", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListMovements_PasaFiltros(t *testing.T) {
	app, d := newRouterApp()
	resp := call(t, app, http.MethodGet,
		"/api/inventory/movements?product_id="+productID+"&type=sale&from=2026-01-01T00:00:00Z", "vendedor", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, productID, d.movements.filter.ProductID)
	assert.Equal(t, "sale", d.movements.filter.Type)
	require.NotNil(t, d.movements.filter.From)
	assert.Nil(t, d.movements.filter.To)
}

// ── Stock ─────────────────────────────────────────────────────────────────────

func TestGetStock_IDInvalido(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodGet, "/api/inventory/stock/no-uuid/"+branchID, "admin", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", decodeError(t, resp).Code)
}

func TestGetStock_NoEncontrado(t *testing.T) {
	app, d := newRouterApp()
	d.movements.stockErr = domain.ErrNotFound
	resp := call(t, app, http.MethodGet, "/api/inventory/stock/"+productID+"/"+branchID, "admin", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetStock_DevuelveDisponible(t *testing.T) {
	app, d := newRouterApp()
	d.movements.stock = &entity.Stock{ProductID: productID, BranchID: branchID,
		Quantity: decimal.NewFromInt(10), ReservedQuantity: decimal.NewFromInt(3)}
	resp := call(t, app, http.MethodGet, "/api/inventory/stock/"+productID+"/"+branchID, "vendedor", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.StockResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Available.Equal(decimal.NewFromInt(7)))
}

func TestListStock_RequiereFiltro(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodGet, "/api/inventory/stock", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRebuildSnapshot_SoloAdmin(t *testing.T) {
	app, _ := newRouterApp()
	path := "/api/inventory/stock/" + productID + "/" + branchID + "/rebuild"

	resp := call(t, app, http.MethodPost, path, "bodeguero", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, path, "admin", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ── Apartados ─────────────────────────────────────────────────────────────────

func TestFulfillReservation_DevuelveMovimiento(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/inventory/reservations/"+recordID+"/fulfill", "bodeguero", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.FulfillReservationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, entity.ReservationStatusFulfilled, body.Reservation.Status)
	assert.Equal(t, "m-1", body.Movement.ID)
}

func TestFulfillReservation_NoActivaEs409(t *testing.T) {
	app, d := newRouterApp()
	d.reservations.fulfillErr = domain.ErrInvalidState
	resp := call(t, app, http.MethodPost, "/api/inventory/reservations/"+recordID+"/fulfill", "admin", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE", decodeError(t, resp).Code)
}

func TestCreateReservation_VendedorPuedeApartar(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/inventory/reservations", "vendedor", map[string]interface{}{
		"product_id": productID, "branch_id": branchID, "quantity": "3",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

// ── Traslados ─────────────────────────────────────────────────────────────────

func TestRequestTransfer_MismaSucursalEs400(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/inventory/transfers", "admin", map[string]interface{}{
		"product_id": productID, "from_branch_id": branchID, "to_branch_id": branchID, "quantity": "5",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequestTransfer_Creado(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/inventory/transfers", "admin", map[string]interface{}{
		"product_id": productID, "from_branch_id": branchID, "to_branch_id": branchB, "quantity": "5",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body dto.TransferResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, entity.TransferStatusInTransit, body.Status)
}

func TestConfirmTransfer_NoAdminDestinoEs403(t *testing.T) {
	app, d := newRouterApp()
	d.transfers.confirmErr = domain.ErrForbidden
	resp := call(t, app, http.MethodPost, "/api/inventory/transfers/"+recordID+"/confirm", "vendedor", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetTransfer_IncluyeMovimientos(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodGet, "/api/inventory/transfers/"+recordID, "vendedor", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.TransferResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Movements, 2)
}

func TestCancelTransfer_SinCuerpo(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/inventory/transfers/"+recordID+"/cancel", "bodeguero", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ── Alertas y valorización ────────────────────────────────────────────────────

func TestEvaluateAlerts_Resumen(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodPost, "/api/inventory/alerts/evaluate", "admin", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body inventory.AlertSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Created)
	assert.Equal(t, 1, body.Retired)
}

func TestListActiveAlerts_TotalDeLaPagina(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodGet, "/api/inventory/alerts", "vendedor", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.AlertListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, entity.AlertTypeLowStock, body.Items[0].AlertType)
}

func TestAcknowledgeAlert_EstadoInvalido(t *testing.T) {
	app, d := newRouterApp()
	d.alerts.transitionErr = domain.ErrInvalidState
	resp := call(t, app, http.MethodPost, "/api/inventory/alerts/"+recordID+"/acknowledge", "admin", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestValuationDetail_PDF(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodGet, "/api/inventory/valuation/detail?format=pdf", "admin", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "valorizacion.pdf")
}

func TestValuationDetail_FormatoDesconocido(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodGet, "/api/inventory/valuation/detail?format=csv", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValuation_Total(t *testing.T) {
	app, _ := newRouterApp()
	resp := call(t, app, http.MethodGet, "/api/inventory/valuation", "vendedor", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body inventory.ValuationReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.TotalValue.Equal(decimal.NewFromInt(18002)))
	assert.Equal(t, testTenantID, body.TenantID)
}

func TestErrorNoReconocidoEs500(t *testing.T) {
	app, d := newRouterApp()
	d.movements.stockErr = errors.New("conexión perdida")
	resp := call(t, app, http.MethodGet, "/api/inventory/stock/"+productID+"/"+branchID, "admin", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL", decodeError(t, resp).Code, "el detalle interno no se expone")
}
