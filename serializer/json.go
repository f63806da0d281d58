package serializer

import "encoding/json"

// JSONName is the registry name of the default serializer.
const JSONName = "json"

// JSON serializes values with encoding/json. The zero value is ready to use.
type JSON struct{}

func (JSON) Name() string                       { return JSONName }
func (JSON) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
