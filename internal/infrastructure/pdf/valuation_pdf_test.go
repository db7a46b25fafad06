package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/inventario-sucursales/internal/application/inventory"
)

func TestValuationRenderer_GeneraPDF(t *testing.T) {
	report := &appinventory.ValuationReport{
		TenantID:      "t-1",
		BranchID:      "b-1",
		BranchName:    "Centro",
		GeneratedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		TotalQuantity: decimal.NewFromInt(18),
		TotalValue:    decimal.NewFromInt(18002),
		Lines: []appinventory.ValuationLine{
			{SKU: "SKU-1", ProductName: "Tornillo", Quantity: decimal.NewFromInt(18),
				UnitCost: decimal.RequireFromString("1000.11"), Value: decimal.NewFromInt(18002)},
		},
	}
	r := NewValuationRenderer()
	out, err := r.Render(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "el documento debe iniciar con la firma PDF")
	assert.Equal(t, "application/pdf", r.ContentType())
}

func TestValuationRenderer_ReporteNil(t *testing.T) {
	_, err := NewValuationRenderer().Render(context.Background(), nil)
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "18.002", formatMoney(decimal.NewFromInt(18002)))
	assert.Equal(t, "1.000.000", formatMoney(decimal.NewFromInt(1000000)))
	assert.Equal(t, "950", formatMoney(decimal.NewFromInt(950)))
	assert.Equal(t, "-1.500", formatMoney(decimal.NewFromInt(-1500)))
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "1.200", formatQuantity(decimal.NewFromInt(1200)))
	assert.Equal(t, "2.50", formatQuantity(decimal.RequireFromString("2.5")))
}
