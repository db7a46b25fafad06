package xmlexport_test

import (
	"context"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/inventario-sucursales/internal/infrastructure/xmlexport"
)

func TestValuationRenderer_Estructura(t *testing.T) {
	report := &appinventory.ValuationReport{
		TenantID:      "t-1",
		BranchID:      "b-1",
		BranchName:    "Centro",
		GeneratedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		TotalQuantity: decimal.NewFromInt(18),
		TotalValue:    decimal.NewFromInt(18002),
		Lines: []appinventory.ValuationLine{
			{ProductID: "p-1", SKU: "SKU-1", ProductName: "Tornillo & tuerca",
				Quantity: decimal.NewFromInt(18), UnitCost: decimal.RequireFromString("1000.1111"),
				Value: decimal.NewFromInt(18002)},
		},
	}
	r := xmlexport.NewValuationRenderer()
	out, err := r.Render(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "application/xml", r.ContentType())

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.SelectElement("InventoryValuation")
	require.NotNil(t, root)
	assert.Equal(t, "t-1", root.SelectAttrValue("tenantId", ""))
	assert.Equal(t, "2026-03-01T10:00:00Z", root.SelectAttrValue("generatedAt", ""))
	assert.Equal(t, "Centro", root.FindElement("Branch").Text())

	lines := root.FindElements("Lines/Line")
	require.Len(t, lines, 1)
	assert.Equal(t, "p-1", lines[0].SelectAttrValue("productId", ""))
	assert.Equal(t, "Tornillo & tuerca", lines[0].FindElement("Name").Text())
	assert.Equal(t, "1000.1111", lines[0].FindElement("UnitCost").Text())
	assert.Equal(t, "18002", root.FindElement("Totals/Value").Text())
}

func TestValuationRenderer_SinSucursal(t *testing.T) {
	out, err := xmlexport.NewValuationRenderer().Render(context.Background(), &appinventory.ValuationReport{TenantID: "t-1"})
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Nil(t, doc.FindElement("InventoryValuation/Branch"))
	assert.Equal(t, "0", doc.FindElement("InventoryValuation/Totals/Quantity").Text())
}
