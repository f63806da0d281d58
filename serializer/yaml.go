package serializer

import "gopkg.in/yaml.v3"

// YAMLName is the registry name of the YAML serializer.
const YAMLName = "yaml"

// YAML serializes values with gopkg.in/yaml.v3. The zero value is ready to use.
//
// Field names default to the lowercased Go name; use `yaml:"name"` tags for
// explicit control. YAML is a superset of JSON, so JSON payloads usually parse.
type YAML struct{}

func (YAML) Name() string                       { return YAMLName }
func (YAML) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (YAML) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }
