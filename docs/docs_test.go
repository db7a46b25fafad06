package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/jhoicas/inventario-sucursales/docs"
)

func TestSwaggerRegistrado(t *testing.T) {
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	for _, path := range []string{
		"/api/inventory/movements",
		"/api/inventory/stock/{product_id}/{branch_id}",
		"/api/inventory/reservations/{id}/fulfill",
		"/api/inventory/transfers/{id}/confirm",
		"/api/inventory/alerts/evaluate",
		"/api/inventory/valuation/detail",
		"/api/notifications",
	} {
		assert.Contains(t, doc.Paths, path)
	}
}
