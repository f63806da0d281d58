package redisval

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/redisval/internal/reply"
	"github.com/unkn0wn-root/redisval/serializer"
)

// Codec converts between raw Redis replies and values of type T using one
// serializer, fixed when the codec is built. The zero value uses the default
// JSON serializer. Codec holds no mutable state and is safe for concurrent use.
type Codec[T any] struct {
	ser serializer.Serializer
}

// NewCodec returns a codec for T. A nil serializer selects serializer.Default.
func NewCodec[T any](s serializer.Serializer) Codec[T] {
	return Codec[T]{ser: s}
}

// Serializer returns the serializer in use.
func (c Codec[T]) Serializer() serializer.Serializer {
	return coalesce[serializer.Serializer](c.ser, serializer.Default)
}

// Encode renders v as a Redis argument payload.
func (c Codec[T]) Encode(v T) ([]byte, error) {
	s := c.Serializer()
	b, err := s.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("redisval: encode %s with %s: %w", typeName[T](), s.Name(), err)
	}
	return b, nil
}

// Decode converts a raw reply, as returned by (*redis.Cmd).Val(), into a T.
//
// String and []byte replies are parsed with the serializer. When the direct
// parse fails and the serializer is the default JSON one, the text is parsed
// once more with one surrounding [ ] layer removed, which is how RedisJSON
// wraps JSON.GET results. Any other reply (nil included) is ErrIncompatibleType.
func (c Codec[T]) Decode(v any) (T, error) {
	out, _, err := c.decode(v)
	return out, err
}

// DecodeBytes is Decode for an already extracted bulk payload.
func (c Codec[T]) DecodeBytes(b []byte) (T, error) {
	out, _, err := c.decode(b)
	return out, err
}

// DecodeCmd decodes the result of a generic command. A redis.Nil reply is
// treated as absence and fails with ErrIncompatibleType; other command errors
// are returned as is.
func (c Codec[T]) DecodeCmd(cmd *redis.Cmd) (T, error) {
	v, err := cmd.Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		var zero T
		return zero, err
	}
	return c.Decode(v)
}

// decode reports whether the bracket-stripped retry was what succeeded.
func (c Codec[T]) decode(v any) (out T, stripped bool, err error) {
	s := c.Serializer()
	b, ok := reply.Payload(v)
	if !ok {
		return out, false, c.typeErr(ErrIncompatibleType, v,
			fmt.Sprintf("response type was not deserializable to %s", typeName[T]()), nil)
	}
	if !utf8.Valid(b) {
		return out, false, c.typeErr(ErrInvalidEncoding, v, "", nil)
	}

	perr := s.Unmarshal(b, &out)
	if perr == nil {
		return out, false, nil
	}
	var zero T
	if !serializer.IsDefault(s) {
		return zero, false, c.typeErr(ErrIncompatibleType, v,
			fmt.Sprintf("response type not deserializable to %s with %s", typeName[T](), s.Name()), perr)
	}
	inner, ok := reply.StripBrackets(string(b))
	if !ok {
		return zero, false, c.typeErr(ErrIncompatibleType, v,
			fmt.Sprintf("response type not deserializable to %s with %s", typeName[T](), s.Name()), perr)
	}
	var retry T
	if err := s.Unmarshal([]byte(inner), &retry); err != nil {
		return zero, false, c.typeErr(ErrIncompatibleType, v,
			fmt.Sprintf("response type not RedisJSON deserializable to %s", typeName[T]()), err)
	}
	return retry, true, nil
}

func (c Codec[T]) typeErr(kind error, v any, detail string, cause error) *TypeError {
	return &TypeError{
		Kind:       kind,
		Type:       typeName[T](),
		Serializer: c.Serializer().Name(),
		Reply:      reply.Describe(v),
		Detail:     detail,
		Err:        cause,
	}
}

// Arg wraps v so it can be passed directly as a go-redis command argument;
// go-redis calls MarshalBinary while writing the command.
//
//	rdb.Set(ctx, "user", users.Arg(u), 0)
func (c Codec[T]) Arg(v T) encoding.BinaryMarshaler {
	return arg[T]{c: c, v: v}
}

// Into returns a go-redis Scan destination that decodes into dst.
//
//	err := rdb.Get(ctx, "user").Scan(users.Into(&u))
func (c Codec[T]) Into(dst *T) encoding.BinaryUnmarshaler {
	return target[T]{c: c, dst: dst}
}

type arg[T any] struct {
	c Codec[T]
	v T
}

func (a arg[T]) MarshalBinary() ([]byte, error) { return a.c.Encode(a.v) }

type target[T any] struct {
	c   Codec[T]
	dst *T
}

func (t target[T]) UnmarshalBinary(b []byte) error {
	v, err := t.c.DecodeBytes(b)
	if err != nil {
		return err
	}
	*t.dst = v
	return nil
}

// Encode renders v with s (nil selects serializer.Default).
func Encode[T any](v T, s serializer.Serializer) ([]byte, error) {
	return NewCodec[T](s).Encode(v)
}

// Decode converts a raw reply into a T with s (nil selects serializer.Default).
func Decode[T any](v any, s serializer.Serializer) (T, error) {
	return NewCodec[T](s).Decode(v)
}

func typeName[T any]() string {
	t := reflect.TypeFor[T]()
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
