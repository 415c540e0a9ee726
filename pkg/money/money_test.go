package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_MarshalsAsPlainNumber(t *testing.T) {
	payload, err := json.Marshal(struct {
		Valor Money `json:"valor"`
	}{Valor: New(150.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"valor":150.5}`, string(payload))
}

func TestMoney_UnmarshalNumberAndString(t *testing.T) {
	var got struct {
		A Money `json:"a"`
		B Money `json:"b"`
		C Money `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":150,"b":"99.90","c":null}`), &got))

	assert.True(t, got.A.Equal(New(150)))
	assert.True(t, got.B.Equal(New(99.9)))
	assert.True(t, got.C.IsZero())
}

func TestParse_AcceptsCommaDecimal(t *testing.T) {
	m, err := Parse(" 150,50 ")
	require.NoError(t, err)
	assert.Equal(t, "150.5", m.String())

	_, err = Parse("abc")
	assert.Error(t, err)
}

func TestSumAndDivInt(t *testing.T) {
	total := Sum(New(100), New(50), New(30))
	assert.Equal(t, "180", total.String())
	assert.Equal(t, "45", total.DivInt(4).String())
	assert.True(t, total.DivInt(0).IsZero())
}
