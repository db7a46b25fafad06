package inventory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sucursales/internal/domain"
	"github.com/jhoicas/inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

// memoryStore simula la BD: txMu serializa transacciones como lo haría el bloqueo de fila,
// dataMu protege los mapas para lecturas fuera de transacción.
type memoryStore struct {
	txMu   sync.Mutex
	dataMu sync.Mutex

	products     map[string]entity.Product
	branches     map[string]entity.Branch
	stock        map[string]entity.Stock
	movements    []entity.InventoryMovement
	reservations map[string]entity.Reservation
	transfers    map[string]entity.Transfer
	alerts       map[string]entity.Alert

	failMovementCreate error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		products:     make(map[string]entity.Product),
		branches:     make(map[string]entity.Branch),
		stock:        make(map[string]entity.Stock),
		reservations: make(map[string]entity.Reservation),
		transfers:    make(map[string]entity.Transfer),
		alerts:       make(map[string]entity.Alert),
	}
}

func key(parts ...string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "|"
		}
		out += p
	}
	return out
}

func (s *memoryStore) addProduct(p entity.Product) {
	s.products[key(p.TenantID, p.ID)] = p
}

func (s *memoryStore) addBranch(b entity.Branch) {
	s.branches[key(b.TenantID, b.ID)] = b
}

// seedStock deja un snapshot con su entrada de ledger equivalente para mantener el replay.
func (s *memoryStore) seedStock(tenantID, productID, branchID string, qty int64) {
	q := decimal.NewFromInt(qty)
	st := entity.NewStock(tenantID, productID, branchID)
	st.Quantity = q
	s.stock[key(tenantID, productID, branchID)] = *st
	s.movements = append(s.movements, entity.InventoryMovement{
		ID: "seed-" + branchID, TenantID: tenantID, ProductID: productID, BranchID: branchID,
		Type: entity.MovementTypeEntry, Quantity: q, PreviousStock: decimal.Zero, NewStock: q,
	})
}

func (s *memoryStore) snapshot(tenantID, productID, branchID string) entity.Stock {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	if st, ok := s.stock[key(tenantID, productID, branchID)]; ok {
		return st
	}
	return *entity.NewStock(tenantID, productID, branchID)
}

func (s *memoryStore) movementsFor(tenantID, productID, branchID string) []entity.InventoryMovement {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	var out []entity.InventoryMovement
	for _, m := range s.movements {
		if m.TenantID == tenantID && m.ProductID == productID && m.BranchID == branchID {
			out = append(out, m)
		}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

type memoryTxRunner struct{ s *memoryStore }

func (r memoryTxRunner) Run(ctx context.Context, fn func(repos TxRepos) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.dataMu.Lock()
	stock := cloneMap(r.s.stock)
	reservations := cloneMap(r.s.reservations)
	transfers := cloneMap(r.s.transfers)
	nMov := len(r.s.movements)
	r.s.dataMu.Unlock()

	err := fn(TxRepos{
		Movements:    memoryMovements{r.s},
		Stock:        memoryStock{r.s},
		Reservations: memoryReservations{r.s},
		Transfers:    memoryTransfers{r.s},
	})
	if err != nil {
		r.s.dataMu.Lock()
		r.s.stock, r.s.reservations, r.s.transfers = stock, reservations, transfers
		r.s.movements = r.s.movements[:nMov]
		r.s.dataMu.Unlock()
	}
	return err
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memoryProducts struct{ s *memoryStore }

func (r memoryProducts) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	p, ok := r.s.products[key(tenantID, id)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type memoryBranches struct{ s *memoryStore }

func (r memoryBranches) GetByID(_ context.Context, tenantID, id string) (*entity.Branch, error) {
	b, ok := r.s.branches[key(tenantID, id)]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r memoryBranches) ListByTenant(_ context.Context, tenantID string) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, b := range r.s.branches {
		if b.TenantID == tenantID {
			b := b
			out = append(out, &b)
		}
	}
	return out, nil
}

func (r memoryBranches) ListTenantIDs(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, b := range r.s.branches {
		if b.IsActive && !seen[b.TenantID] {
			seen[b.TenantID] = true
			out = append(out, b.TenantID)
		}
	}
	sort.Strings(out)
	return out, nil
}

type memoryStock struct{ s *memoryStore }

func (r memoryStock) Get(_ context.Context, tenantID, productID, branchID string) (*entity.Stock, error) {
	st := r.s.snapshot(tenantID, productID, branchID)
	return &st, nil
}

func (r memoryStock) GetForUpdate(_ context.Context, tenantID, productID, branchID string) (*entity.Stock, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	k := key(tenantID, productID, branchID)
	st, ok := r.s.stock[k]
	if !ok {
		st = *entity.NewStock(tenantID, productID, branchID)
		r.s.stock[k] = st
	}
	return &st, nil
}

func (r memoryStock) Save(_ context.Context, st *entity.Stock) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	r.s.stock[key(st.TenantID, st.ProductID, st.BranchID)] = *st
	return nil
}

type memoryLevels struct{ s *memoryStore }

func (r memoryLevels) ListByTenant(_ context.Context, tenantID string) ([]*entity.InventoryLevel, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var out []*entity.InventoryLevel
	for _, st := range r.s.stock {
		if st.TenantID != tenantID {
			continue
		}
		p := r.s.products[key(tenantID, st.ProductID)]
		b := r.s.branches[key(tenantID, st.BranchID)]
		out = append(out, &entity.InventoryLevel{
			TenantID: tenantID, BranchID: st.BranchID, BranchName: b.Name,
			ProductID: st.ProductID, SKU: p.SKU, ProductName: p.Name,
			Quantity: st.Quantity, ReservedQuantity: st.ReservedQuantity,
			MinStock: p.MinStock, MaxStock: p.MaxStock, UnitCost: p.UnitCost,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BranchID+out[i].ProductID < out[j].BranchID+out[j].ProductID })
	return out, nil
}

func (r memoryLevels) ListByBranch(ctx context.Context, tenantID, branchID string, _, _ int) ([]*entity.InventoryLevel, error) {
	all, _ := r.ListByTenant(ctx, tenantID)
	var out []*entity.InventoryLevel
	for _, l := range all {
		if l.BranchID == branchID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r memoryLevels) ListByProduct(ctx context.Context, tenantID, productID string) ([]*entity.InventoryLevel, error) {
	all, _ := r.ListByTenant(ctx, tenantID)
	var out []*entity.InventoryLevel
	for _, l := range all {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out, nil
}

type memoryMovements struct{ s *memoryStore }

func (r memoryMovements) Create(_ context.Context, m *entity.InventoryMovement) error {
	if r.s.failMovementCreate != nil {
		return r.s.failMovementCreate
	}
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r memoryMovements) List(_ context.Context, tenantID string, f repository.MovementFilter, _, _ int) ([]*entity.InventoryMovement, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.TenantID != tenantID ||
			(f.ProductID != "" && m.ProductID != f.ProductID) ||
			(f.BranchID != "" && m.BranchID != f.BranchID) ||
			(f.TransferID != "" && m.TransferID != f.TransferID) ||
			(f.Type != "" && m.Type != f.Type) {
			continue
		}
		m := m
		out = append(out, &m)
	}
	return out, nil
}

func (r memoryMovements) ListByTransfer(ctx context.Context, tenantID, transferID string) ([]*entity.InventoryMovement, error) {
	return r.List(ctx, tenantID, repository.MovementFilter{TransferID: transferID}, 0, 0)
}

func (r memoryMovements) SumEffect(_ context.Context, tenantID, productID, branchID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.s.movementsFor(tenantID, productID, branchID) {
		sum = sum.Add(m.Quantity)
	}
	return sum, nil
}

type memoryReservations struct{ s *memoryStore }

func (r memoryReservations) Create(_ context.Context, res *entity.Reservation) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	r.s.reservations[key(res.TenantID, res.ID)] = *res
	return nil
}

func (r memoryReservations) GetByID(_ context.Context, tenantID, id string) (*entity.Reservation, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	res, ok := r.s.reservations[key(tenantID, id)]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (r memoryReservations) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Reservation, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r memoryReservations) UpdateStatus(ctx context.Context, res *entity.Reservation) error {
	return r.Create(ctx, res)
}

func (r memoryReservations) List(_ context.Context, tenantID string, f repository.ReservationFilter, _, _ int) ([]*entity.Reservation, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var out []*entity.Reservation
	for _, res := range r.s.reservations {
		if res.TenantID != tenantID ||
			(f.ProductID != "" && res.ProductID != f.ProductID) ||
			(f.BranchID != "" && res.BranchID != f.BranchID) ||
			(f.ReferenceID != "" && res.ReferenceID != f.ReferenceID) ||
			(f.Status != "" && res.Status != f.Status) {
			continue
		}
		res := res
		out = append(out, &res)
	}
	return out, nil
}

func (r memoryReservations) ListOverdue(_ context.Context, tenantID string, now time.Time, _ int) ([]*entity.Reservation, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var out []*entity.Reservation
	for _, res := range r.s.reservations {
		if (tenantID == "" || res.TenantID == tenantID) && res.IsActive() && res.IsOverdue(now) {
			res := res
			out = append(out, &res)
		}
	}
	return out, nil
}

type memoryTransfers struct{ s *memoryStore }

func (r memoryTransfers) Create(_ context.Context, t *entity.Transfer) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	r.s.transfers[key(t.TenantID, t.ID)] = *t
	return nil
}

func (r memoryTransfers) GetByID(_ context.Context, tenantID, id string) (*entity.Transfer, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	t, ok := r.s.transfers[key(tenantID, id)]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r memoryTransfers) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r memoryTransfers) Update(ctx context.Context, t *entity.Transfer) error {
	return r.Create(ctx, t)
}

func (r memoryTransfers) List(_ context.Context, tenantID string, f repository.TransferFilter, _, _ int) ([]*entity.Transfer, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var out []*entity.Transfer
	for _, t := range r.s.transfers {
		if t.TenantID != tenantID ||
			(f.BranchID != "" && t.FromBranchID != f.BranchID && t.ToBranchID != f.BranchID) ||
			(f.Status != "" && t.Status != f.Status) ||
			(f.ProductID != "" && t.ProductID != f.ProductID) {
			continue
		}
		t := t
		out = append(out, &t)
	}
	return out, nil
}

type memoryAlerts struct{ s *memoryStore }

func (r memoryAlerts) Create(_ context.Context, a *entity.Alert) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	for _, other := range r.s.alerts {
		if other.TenantID == a.TenantID && other.IsOpen() && other.Key() == a.Key() {
			return domain.ErrConflict
		}
	}
	r.s.alerts[key(a.TenantID, a.ID)] = *a
	return nil
}

func (r memoryAlerts) GetByID(_ context.Context, tenantID, id string) (*entity.Alert, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	a, ok := r.s.alerts[key(tenantID, id)]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r memoryAlerts) Update(_ context.Context, a *entity.Alert) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	r.s.alerts[key(a.TenantID, a.ID)] = *a
	return nil
}

func (r memoryAlerts) ListOpen(_ context.Context, tenantID string) ([]*entity.Alert, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var out []*entity.Alert
	for _, a := range r.s.alerts {
		if a.TenantID == tenantID && a.IsOpen() {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

func (r memoryAlerts) ListActive(_ context.Context, tenantID, branchID string) ([]*entity.Alert, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var out []*entity.Alert
	for _, a := range r.s.alerts {
		if a.TenantID == tenantID && a.Status == entity.AlertStatusActive && (branchID == "" || a.BranchID == branchID) {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Notification sink
// ──────────────────────────────────────────────────────────────────────────────

type recordingSink struct {
	mu   sync.Mutex
	sent []entity.Notification
	err  error
}

func (s *recordingSink) Notify(_ context.Context, n entity.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *recordingSink) byType(kind string) []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Notification
	for _, n := range s.sent {
		if n.Type == kind {
			out = append(out, n)
		}
	}
	return out
}

var errSinkDown = errors.New("sink caído")

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	tenantID    = "t-1"
	productP    = "p-1"
	branchA     = "b-a"
	branchB     = "b-b"
	branchOff   = "b-off"
	adminA      = "u-admin-a"
	adminB      = "u-admin-b"
	clerk       = "u-clerk"
	otherTenant = "t-2"
)

type fixture struct {
	store        *memoryStore
	sink         *recordingSink
	movements    *MovementUseCase
	reservations *ReservationUseCase
	transfers    *TransferUseCase
	alerts       *AlertUseCase
	valuation    *ValuationUseCase
}

func newFixture() *fixture {
	s := newMemoryStore()
	s.addProduct(entity.Product{
		ID: productP, TenantID: tenantID, SKU: "SKU-P", Name: "Shampoo",
		MinStock: decimal.NewFromInt(5), MaxStock: decimal.NewFromInt(50),
		UnitCost: decimal.NewFromInt(1000), IsActive: true,
	})
	s.addBranch(entity.Branch{ID: branchA, TenantID: tenantID, Name: "Centro", IsActive: true, AdminUserID: adminA})
	s.addBranch(entity.Branch{ID: branchB, TenantID: tenantID, Name: "Norte", IsActive: true, AdminUserID: adminB})
	s.addBranch(entity.Branch{ID: branchOff, TenantID: tenantID, Name: "Cerrada", IsActive: false})

	sink := &recordingSink{}
	log := zerolog.Nop()
	tx := memoryTxRunner{s}
	return &fixture{
		store: s,
		sink:  sink,
		movements: NewMovementUseCase(tx, memoryProducts{s}, memoryBranches{s}, memoryStock{s},
			memoryLevels{s}, memoryMovements{s}, sink, log),
		reservations: NewReservationUseCase(tx, memoryProducts{s}, memoryBranches{s}, memoryReservations{s}, log),
		transfers: NewTransferUseCase(tx, memoryProducts{s}, memoryBranches{s}, memoryTransfers{s},
			memoryMovements{s}, sink, log),
		alerts:    NewAlertUseCase(memoryLevels{s}, memoryAlerts{s}, memoryBranches{s}, sink, log),
		valuation: NewValuationUseCase(memoryLevels{s}, memoryBranches{s}, nil),
	}
}

func (f *fixture) stock(branchID string) entity.Stock {
	return f.store.snapshot(tenantID, productP, branchID)
}

// ledgerSum replay del ledger desde cero.
func (f *fixture) ledgerSum(branchID string) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range f.store.movementsFor(tenantID, productP, branchID) {
		sum = sum.Add(m.Quantity)
	}
	return sum
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
