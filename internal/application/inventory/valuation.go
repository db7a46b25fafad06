package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sucursales/internal/domain"
	"github.com/jhoicas/inventario-sucursales/internal/domain/repository"
)

// ValuationLine valor de un producto (cantidad física × costo unitario).
type ValuationLine struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Value       decimal.Decimal `json:"value"`
}

// ValuationReport agregado de valorización del inventario del tenant, opcionalmente de una sucursal.
type ValuationReport struct {
	TenantID      string          `json:"tenant_id"`
	BranchID      string          `json:"branch_id,omitempty"`
	BranchName    string          `json:"branch_name,omitempty"`
	GeneratedAt   time.Time       `json:"generated_at"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
	Lines         []ValuationLine `json:"lines,omitempty"`
}

// ValuationUseCase calcula la valorización. Solo lectura.
type ValuationUseCase struct {
	levelRepo  repository.InventoryLevelRepository
	branchRepo repository.BranchRepository
	renderers  map[string]ValuationRenderer
	now        func() time.Time
}

// NewValuationUseCase construye el caso de uso. renderers indexa los formatos exportables (pdf, xml).
func NewValuationUseCase(levelRepo repository.InventoryLevelRepository, branchRepo repository.BranchRepository, renderers map[string]ValuationRenderer) *ValuationUseCase {
	return &ValuationUseCase{
		levelRepo:  levelRepo,
		branchRepo: branchRepo,
		renderers:  renderers,
		now:        time.Now,
	}
}

// Valuation devuelve totales sin detalle.
func (uc *ValuationUseCase) Valuation(ctx context.Context, tenantID, branchID string) (*ValuationReport, error) {
	report, err := uc.build(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}
	report.Lines = nil
	return report, nil
}

// ValuationDetail devuelve totales y una línea por producto, ordenadas por valor descendente.
func (uc *ValuationUseCase) ValuationDetail(ctx context.Context, tenantID, branchID string) (*ValuationReport, error) {
	return uc.build(ctx, tenantID, branchID)
}

// ExportDetail genera el detalle en el formato pedido. Devuelve el contenido y su content-type.
func (uc *ValuationUseCase) ExportDetail(ctx context.Context, tenantID, branchID, format string) ([]byte, string, error) {
	r, ok := uc.renderers[format]
	if !ok {
		return nil, "", domain.ErrInvalidInput
	}
	report, err := uc.build(ctx, tenantID, branchID)
	if err != nil {
		return nil, "", err
	}
	out, err := r.Render(ctx, report)
	if err != nil {
		return nil, "", err
	}
	return out, r.ContentType(), nil
}

func (uc *ValuationUseCase) build(ctx context.Context, tenantID, branchID string) (*ValuationReport, error) {
	if tenantID == "" {
		return nil, domain.ErrInvalidInput
	}
	report := &ValuationReport{
		TenantID:      tenantID,
		BranchID:      branchID,
		GeneratedAt:   uc.now().UTC(),
		TotalQuantity: decimal.Zero,
		TotalValue:    decimal.Zero,
	}
	if branchID != "" {
		branch, err := uc.branchRepo.GetByID(ctx, tenantID, branchID)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			return nil, domain.ErrNotFound
		}
		report.BranchName = branch.Name
	}

	levels, err := uc.levelRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[string]*ValuationLine)
	for _, lvl := range levels {
		if branchID != "" && lvl.BranchID != branchID {
			continue
		}
		line, ok := byProduct[lvl.ProductID]
		if !ok {
			line = &ValuationLine{
				ProductID:   lvl.ProductID,
				SKU:         lvl.SKU,
				ProductName: lvl.ProductName,
				Quantity:    decimal.Zero,
				UnitCost:    lvl.UnitCost,
				Value:       decimal.Zero,
			}
			byProduct[lvl.ProductID] = line
		}
		value := lvl.Quantity.Mul(lvl.UnitCost)
		line.Quantity = line.Quantity.Add(lvl.Quantity)
		line.Value = line.Value.Add(value)
		report.TotalQuantity = report.TotalQuantity.Add(lvl.Quantity)
		report.TotalValue = report.TotalValue.Add(value)
	}

	report.Lines = make([]ValuationLine, 0, len(byProduct))
	for _, l := range byProduct {
		report.Lines = append(report.Lines, *l)
	}
	sort.Slice(report.Lines, func(i, j int) bool {
		if !report.Lines[i].Value.Equal(report.Lines[j].Value) {
			return report.Lines[i].Value.GreaterThan(report.Lines[j].Value)
		}
		return report.Lines[i].SKU < report.Lines[j].SKU
	})
	return report, nil
}
