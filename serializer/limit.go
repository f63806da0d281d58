package serializer

import (
	"errors"
	"fmt"
)

// LimitName is reported by a Limit with no inner serializer.
const LimitName = "limit"

var errNoInner = errors.New("serializer: limit has no inner serializer")

// Limit wraps another serializer to enforce a maximum accepted payload size at
// Unmarshal time. Marshal is forwarded to Inner unchanged.
// If MaxUnmarshal <= 0, size limiting is disabled.
//
// Name reports the inner serializer's name, so a limited JSON serializer still
// counts as the default one.
type Limit struct {
	// Inner is the wrapped serializer. Without it every call fails.
	Inner Serializer
	// MaxUnmarshal is the maximum permitted payload length in bytes.
	MaxUnmarshal int
}

func (l Limit) Name() string {
	if l.Inner == nil {
		return LimitName
	}
	return l.Inner.Name()
}

func (l Limit) Marshal(v any) ([]byte, error) {
	if l.Inner == nil {
		return nil, errNoInner
	}
	return l.Inner.Marshal(v)
}

func (l Limit) Unmarshal(data []byte, v any) error {
	if l.Inner == nil {
		return errNoInner
	}
	if l.MaxUnmarshal > 0 && len(data) > l.MaxUnmarshal {
		return fmt.Errorf("payload too large: %d > %d", len(data), l.MaxUnmarshal)
	}
	return l.Inner.Unmarshal(data, v)
}
