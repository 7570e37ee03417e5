package pokeapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTripsOrder(t *testing.T) {
	in := &PlaceOrderResponse{Order: Order{
		OrderID: "o-1",
		Bowls: []BowlLine{{
			Bowl:  Bowl{Size: "Large", Proteins: []string{"tuna"}, Amount: 2},
			Price: 28,
		}},
		Total: 28,
	}}

	data, err := Codec{}.Marshal(in)
	require.NoError(t, err)
	// Embedded bowl fields are flattened into the line.
	assert.Contains(t, string(data), `"bowls":[{"size":"Large","proteins":["tuna"],"amount":2,"price":28}]`)

	var out PlaceOrderResponse
	require.NoError(t, Codec{}.Unmarshal(data, &out))
	assert.Equal(t, *in, out)
}

func TestCodecEmptyBody(t *testing.T) {
	var req ListOrdersRequest
	assert.NoError(t, Codec{}.Unmarshal(nil, &req))
	assert.Equal(t, "json", Codec{}.Name())
}
