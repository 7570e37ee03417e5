package pokeapi

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec marshals API messages as JSON. It replaces Connect's default
// protobuf JSON codec, which only accepts generated proto messages.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
