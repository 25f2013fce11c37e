package rpc

import (
	"encoding/json"
)

// Codec carries clipy messages as JSON instead of protobuf. Both ends force
// it, so no content-subtype negotiation takes place.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (Codec) Name() string                       { return "json" }
