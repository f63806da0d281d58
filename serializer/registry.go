package serializer

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknown is returned by Lookup for names that were never registered.
var ErrUnknown = errors.New("serializer: unknown serializer")

var (
	regMu    sync.RWMutex
	registry = map[string]Serializer{
		JSONName:      JSON{},
		YAMLName:      YAML{},
		TOMLName:      TOML{},
		ProtoJSONName: ProtoJSON{},
	}
)

// Register makes s available to Lookup under s.Name(), replacing any
// serializer previously registered under that name.
func Register(s Serializer) {
	if s == nil {
		panic("serializer: Register of nil serializer")
	}
	regMu.Lock()
	registry[s.Name()] = s
	regMu.Unlock()
}

// Lookup returns the serializer registered under name.
// The empty name selects Default.
func Lookup(name string) (Serializer, error) {
	if name == "" {
		return Default, nil
	}
	regMu.RLock()
	s, ok := registry[name]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return s, nil
}

// Names returns the registered names in ascending order.
func Names() []string {
	regMu.RLock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	regMu.RUnlock()
	sort.Strings(out)
	return out
}
