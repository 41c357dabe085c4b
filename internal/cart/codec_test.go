package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWritesNumericPrices(t *testing.T) {
	c := Cart{Items: []LineItem{
		{ID: 1, Name: "Cleansing Tone", Price: money(t, "19.99"), Quantity: 2, Image: "/img/a.jpg"},
	}}
	raw, err := encode(c)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Cleansing Tone","price":19.99,"quantity":2,"image":"/img/a.jpg"}]`, raw)

	empty, err := encode(Cart{})
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}

func TestDecodeRoundTripsExactPrices(t *testing.T) {
	decoded, repaired, err := decode(`[{"id":7,"name":"Body Oil","price":0.1,"quantity":3,"image":"x"}]`)
	require.NoError(t, err)
	assert.Zero(t, repaired)
	require.Len(t, decoded.Items, 1)
	requireMoney(t, "0.3", decoded.Total())
}

func TestDecodeAbsentValues(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "[]"} {
		c, repaired, err := decode(raw)
		require.NoError(t, err, raw)
		assert.True(t, c.IsEmpty(), raw)
		assert.Zero(t, repaired, raw)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		"not json",
		`{"id":1}`,
		`"[]"`,
		`[{"id":1,"quantity":1.5,"price":2}]`,
		`[{"id":"one","quantity":1,"price":2}]`,
	} {
		_, _, err := decode(raw)
		assert.Error(t, err, raw)
	}
}

func TestDecodeRepairsInvariantViolations(t *testing.T) {
	raw := `[
		{"id":1,"name":"A","price":5,"quantity":2,"image":""},
		{"id":2,"name":"B","price":3,"quantity":0,"image":""},
		{"id":3,"name":"C","price":-1,"quantity":1,"image":""},
		{"id":1,"name":"A","price":5,"quantity":1,"image":""},
		{"id":4,"name":"D","quantity":1,"image":""}
	]`
	c, repaired, err := decode(raw)
	require.NoError(t, err)
	assert.Equal(t, 4, repaired)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestDecodeCapsQuantities(t *testing.T) {
	raw := `[
		{"id":1,"name":"A","price":5,"quantity":9223372036854775000,"image":""},
		{"id":1,"name":"A","price":5,"quantity":9223372036854775000,"image":""},
		{"id":2,"name":"B","price":3,"quantity":6000,"image":""},
		{"id":2,"name":"B","price":3,"quantity":6000,"image":""},
		{"id":0,"name":"Z","price":1,"quantity":1,"image":""},
		{"id":-4,"name":"N","price":1,"quantity":1,"image":""}
	]`
	c, repaired, err := decode(raw)
	require.NoError(t, err)
	assert.Equal(t, 6, repaired)
	require.Len(t, c.Items, 2)
	assert.Equal(t, MaxQuantity, c.Items[0].Quantity)
	assert.Equal(t, MaxQuantity, c.Items[1].Quantity)
	for _, item := range c.Items {
		assert.Positive(t, item.ID)
		assert.Positive(t, item.Subtotal().Sign())
	}
}
