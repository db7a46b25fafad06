package validator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sucursales/pkg/validator"
)

type sample struct {
	ProductID string           `validate:"required,uuid"`
	Type      string           `validate:"required,oneof=entry exit"`
	Quantity  decimal.Decimal  `validate:"decimal_gt0"`
	UnitCost  *decimal.Decimal `validate:"omitempty,decimal_gte0"`
}

func TestValidateStruct_Valido(t *testing.T) {
	s := sample{
		ProductID: "7f1c2f6a-52a4-4d4c-9d43-0f7c5d5d8a11",
		Type:      "entry",
		Quantity:  decimal.NewFromInt(3),
	}
	assert.Empty(t, validator.ValidateStruct(s))
}

func TestValidateStruct_Errores(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	s := sample{ProductID: "no-uuid", Type: "otro", Quantity: decimal.Zero, UnitCost: &neg}
	errs := validator.ValidateStruct(s)
	require.Len(t, errs, 4)

	tags := map[string]string{}
	for _, e := range errs {
		tags[e.Field] = e.Tag
	}
	assert.Equal(t, "uuid", tags["ProductID"])
	assert.Equal(t, "oneof", tags["Type"])
	assert.Equal(t, "decimal_gt0", tags["Quantity"])
	assert.Equal(t, "decimal_gte0", tags["UnitCost"])
	assert.Contains(t, validator.Message(errs), "Type: oneof=entry exit")
}
