package validator

import (
	"testing"

	"psico-portal/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priced struct {
	Name  string       `validate:"required"`
	Price money.Money  `validate:"gte=0"`
	Extra *money.Money `validate:"omitempty,gte=0"`
	Mode  string       `validate:"omitempty,oneof=a b"`
}

func TestValidate_Money(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&priced{Name: "x", Price: money.New(150)}))
	assert.NoError(t, v.Validate(&priced{Name: "x", Price: money.Zero}))

	negative := money.New(-1)
	err := v.Validate(&priced{Name: "x", Price: money.New(10), Extra: &negative})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"Extra": "Extra must be greater than or equal to 0"}, v.FormatValidationErrors(err))

	err = v.Validate(&priced{Price: money.New(-5), Mode: "c"})
	require.Error(t, err)
	formatted := v.FormatValidationErrors(err)
	assert.Equal(t, "Name is required", formatted["Name"])
	assert.Equal(t, "Price must be greater than or equal to 0", formatted["Price"])
	assert.Equal(t, "Mode must be one of: a b", formatted["Mode"])
}
