// Package xmlexport serializa el reporte de valorización como XML para integraciones contables.
package xmlexport

import (
	"context"
	"fmt"
	"time"

	"github.com/beevik/etree"

	appinventory "github.com/jhoicas/inventario-sucursales/internal/application/inventory"
)

const valuationNamespace = "urn:inventario-sucursales:valuation:v1"

var _ appinventory.ValuationRenderer = (*ValuationRenderer)(nil)

// ValuationRenderer implementa inventory.ValuationRenderer con etree.
type ValuationRenderer struct{}

// NewValuationRenderer construye el serializador.
func NewValuationRenderer() *ValuationRenderer { return &ValuationRenderer{} }

// ContentType tipo MIME del documento.
func (r *ValuationRenderer) ContentType() string { return "application/xml" }

// Render genera <InventoryValuation> con una <Line> por producto. Cantidades y montos
// se escriben con el string exacto de decimal, sin redondeo.
func (r *ValuationRenderer) Render(_ context.Context, report *appinventory.ValuationReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("xml: reporte vacío")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("InventoryValuation")
	root.CreateAttr("xmlns", valuationNamespace)
	root.CreateAttr("tenantId", report.TenantID)
	root.CreateAttr("generatedAt", report.GeneratedAt.UTC().Format(time.RFC3339))
	if report.BranchID != "" {
		branch := root.CreateElement("Branch")
		branch.CreateAttr("id", report.BranchID)
		branch.SetText(report.BranchName)
	}

	lines := root.CreateElement("Lines")
	for _, l := range report.Lines {
		el := lines.CreateElement("Line")
		el.CreateAttr("productId", l.ProductID)
		el.CreateElement("SKU").SetText(l.SKU)
		el.CreateElement("Name").SetText(l.ProductName)
		el.CreateElement("Quantity").SetText(l.Quantity.String())
		el.CreateElement("UnitCost").SetText(l.UnitCost.String())
		el.CreateElement("Value").SetText(l.Value.String())
	}

	totals := root.CreateElement("Totals")
	totals.CreateElement("Quantity").SetText(report.TotalQuantity.String())
	totals.CreateElement("Value").SetText(report.TotalValue.String())

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xml: serializar: %w", err)
	}
	return out, nil
}
