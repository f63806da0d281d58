package redisval

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/unkn0wn-root/redisval/internal/reply"
	"github.com/unkn0wn-root/redisval/serializer"
)

// JSON holds a value read from (or written to) a RedisJSON document.
//
// JSON.GET with a JSONPath always answers with an array of matches, so a
// single value comes back as [<value>]. JSON strips exactly one bracket layer
// before parsing and never falls back to the unstripped text, which also makes
// it the right choice for types whose own JSON form is an array ([]T, [N]T).
//
//	name, err := redisval.DecodeJSON[string](rdb.Do(ctx, "JSON.GET", "user", "$.name").Val())
type JSON[T any] struct {
	Value T
}

// WrapJSON wraps v.
func WrapJSON[T any](v T) JSON[T] { return JSON[T]{Value: v} }

// Get returns the wrapped value.
func (j JSON[T]) Get() T { return j.Value }

// MarshalBinary renders the wrapped value as plain JSON, ready to be passed as
// a JSON.SET argument.
func (j JSON[T]) MarshalBinary() ([]byte, error) {
	b, err := json.Marshal(j.Value)
	if err != nil {
		return nil, fmt.Errorf("redisval: encode %s with %s: %w", typeName[T](), serializer.JSONName, err)
	}
	return b, nil
}

// UnmarshalBinary decodes a bracket-wrapped RedisJSON payload into j.
func (j *JSON[T]) UnmarshalBinary(b []byte) error {
	v, err := DecodeJSON[T](b)
	if err != nil {
		return err
	}
	j.Value = v
	return nil
}

// DecodeJSON decodes a raw JSON.GET reply that is expected to be wrapped in
// one [ ] layer.
func DecodeJSON[T any](v any) (T, error) {
	var out T
	b, ok := reply.Payload(v)
	if !ok {
		return out, jsonErr[T](ErrIncompatibleType, v, "response type not RedisJSON deserializable", nil)
	}
	if !utf8.Valid(b) {
		return out, jsonErr[T](ErrInvalidEncoding, v, "", nil)
	}
	inner, ok := reply.StripBrackets(string(b))
	if !ok {
		return out, jsonErr[T](ErrNotBracketed, v, "response type was not JSON type", nil)
	}
	if err := json.Unmarshal([]byte(inner), &out); err != nil {
		var zero T
		return zero, jsonErr[T](ErrDeserializeFailed, v, "response type in JSON was not deserializable", err)
	}
	return out, nil
}

func jsonErr[T any](kind error, v any, detail string, cause error) *TypeError {
	return &TypeError{
		Kind:       kind,
		Type:       typeName[T](),
		Serializer: serializer.JSONName,
		Reply:      reply.Describe(v),
		Detail:     detail,
		Err:        cause,
	}
}
