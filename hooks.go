package redisval

// Hooks are callbacks for high-signal Store events.
// Implementations MUST be cheap and non-blocking; they run inline on reads.
type Hooks interface {
	// A value was only readable after stripping one [ ] layer.
	// Frequent calls on plain GETs usually mean RedisJSON output was copied
	// into a string key.
	BracketFallback(storageKey string)

	// A reply could not be converted. err is a *TypeError.
	DecodeFailed(storageKey string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) BracketFallback(string)     {}
func (NopHooks) DecodeFailed(string, error) {}
