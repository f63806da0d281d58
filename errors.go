package redisval

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEncoding: the reply payload is not valid UTF-8.
	ErrInvalidEncoding = errors.New("redisval: response was not valid UTF-8")
	// ErrIncompatibleType: the reply kind is unsupported, or no parse attempt
	// produced the target type.
	ErrIncompatibleType = errors.New("redisval: response was of incompatible type")
	// ErrNotBracketed: a RedisJSON reply was expected to be wrapped in a
	// single [ ] layer but was not.
	ErrNotBracketed = errors.New("redisval: response was not bracket-wrapped")
	// ErrDeserializeFailed: a bracket-wrapped RedisJSON reply had inner content
	// that did not parse. Errors of this kind also match ErrIncompatibleType.
	ErrDeserializeFailed = errors.New("redisval: bracket-wrapped response was not deserializable")
)

// TypeError describes a failed conversion of a Redis reply into a Go value.
// Kind is one of the Err* sentinels above; errors.Is matches it, and
// errors.As reaches the serializer's own error through Err.
type TypeError struct {
	Kind       error
	Type       string // target Go type
	Serializer string // serializer name
	Reply      string // debug rendering of the offending reply
	Detail     string
	Err        error // underlying parse error, if any
}

func (e *TypeError) Error() string {
	msg := fmt.Sprint(e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	msg += fmt.Sprintf(" (type %s, serializer %s, response was %s)", e.Type, e.Serializer, e.Reply)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeError) Unwrap() []error {
	errs := make([]error, 0, 3)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Kind == ErrDeserializeFailed {
		errs = append(errs, ErrIncompatibleType)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
