package redisval

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/redisval/serializer"
)

// ErrNilClient is returned by NewStore when Options.Client is nil.
var ErrNilClient = errors.New("redisval: nil client")

// Options configure a Store. Only Client is required.
type Options[T any] struct {
	Client      redis.UniversalClient
	CloseClient bool // set true only if the store exclusively owns the client

	Serializer serializer.Serializer // nil => serializer.Default (JSON)
	Namespace  string                // optional key prefix, keys become "<ns>:<key>"
	DefaultTTL time.Duration         // applied by Set when ttl == 0; 0 => no expiry
	Logger     Logger                // nil => NopLogger
	Hooks      Hooks                 // nil => NopHooks
}

// NewStore builds a typed store over opts.Client.
func NewStore[T any](opts Options[T]) (*Store[T], error) {
	if opts.Client == nil {
		return nil, ErrNilClient
	}
	return &Store[T]{
		rdb:         opts.Client,
		closeClient: opts.CloseClient,
		ns:          opts.Namespace,
		defaultTTL:  opts.DefaultTTL,
		codec:       NewCodec[T](opts.Serializer),
		json:        NewCodec[T](serializer.JSON{}),
		log:         coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:       coalesce[Hooks](opts.Hooks, NopHooks{}),
	}, nil
}
