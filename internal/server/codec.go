package server

import (
	json "github.com/goccy/go-json"
)

// jsonCodec lets connect carry plain Go structs as JSON. It registers under
// the "json" name and replaces connect's protobuf JSON codec.
type jsonCodec struct{}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal treats an empty body as an empty request.
func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
