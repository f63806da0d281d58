package serializer

import "github.com/BurntSushi/toml"

// TOMLName is the registry name of the TOML serializer.
const TOMLName = "toml"

// TOML serializes values with BurntSushi/toml. The zero value is ready to use.
// TOML documents are tables, so only struct and map values can be rendered.
type TOML struct{}

func (TOML) Name() string                  { return TOMLName }
func (TOML) Marshal(v any) ([]byte, error) { return toml.Marshal(v) }
func (TOML) Unmarshal(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}
