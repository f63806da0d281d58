// Package serializer defines the pluggable text formats used to render values
// into Redis arguments and parse them back out of replies.
//
// A Serializer is chosen once per data type (see redisval.NewCodec) and must be
// safe for concurrent use. Serializers are text based: the bytes produced by
// Marshal are expected to be valid UTF-8.
package serializer

// Serializer renders values to text and parses text back into values.
type Serializer interface {
	// Name identifies the format in diagnostics and in the registry.
	Name() string
	// Marshal renders v.
	Marshal(v any) ([]byte, error)
	// Unmarshal parses data into v, which must be a non-nil pointer.
	Unmarshal(data []byte, v any) error
}

// Default is the serializer used when none is configured.
var Default Serializer = JSON{}

// IsDefault reports whether s is the default JSON serializer, either directly
// or wrapped by Limit. Only the default serializer gets the RedisJSON
// bracket-stripping retry.
func IsDefault(s Serializer) bool {
	switch v := s.(type) {
	case JSON, *JSON:
		return true
	case Limit:
		return v.Inner != nil && IsDefault(v.Inner)
	case *Limit:
		return v != nil && v.Inner != nil && IsDefault(v.Inner)
	default:
		return false
	}
}
