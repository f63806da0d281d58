package redisval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store reads and writes T values under string keys, and inside RedisJSON
// documents. Safe for concurrent use.
type Store[T any] struct {
	rdb         redis.UniversalClient
	closeClient bool
	ns          string
	defaultTTL  time.Duration

	codec Codec[T] // configured serializer, plain GET/SET
	json  Codec[T] // JSON.GET/JSON.SET always speak JSON
	log   Logger
	hooks Hooks
}

// Get returns (v, true, nil) on hit and (zero, false, nil) on miss.
// A value that does not decode is returned as an error, never as a miss.
func (s *Store[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T
	k := s.key(key)
	b, err := s.rdb.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("redisval: get %s: %w", k, err)
	}
	v, stripped, err := s.codec.decode(b)
	if err != nil {
		s.decodeFailed(k, err)
		return zero, false, err
	}
	if stripped {
		s.bracketFallback(k, s.codec)
	}
	return v, true, nil
}

// Set stores v under key. ttl == 0 uses Options.DefaultTTL; a negative ttl
// stores without expiry.
func (s *Store[T]) Set(ctx context.Context, key string, v T, ttl time.Duration) error {
	b, err := s.codec.Encode(v)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	if ttl < 0 {
		ttl = 0
	}
	k := s.key(key)
	if err := s.rdb.Set(ctx, k, b, ttl).Err(); err != nil {
		return fmt.Errorf("redisval: set %s: %w", k, err)
	}
	return nil
}

// Del removes key.
func (s *Store[T]) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

// JSONSet writes v at path inside the RedisJSON document stored under key.
// An empty path means the document root ("$").
func (s *Store[T]) JSONSet(ctx context.Context, key, path string, v T) error {
	b, err := s.json.Encode(v)
	if err != nil {
		return err
	}
	k := s.key(key)
	if err := s.rdb.Do(ctx, "JSON.SET", k, jsonPath(path), b).Err(); err != nil {
		return fmt.Errorf("redisval: json.set %s %s: %w", k, jsonPath(path), err)
	}
	return nil
}

// JSONGet reads the value at path from the RedisJSON document under key.
// A missing document is a miss.
//
// JSONPath queries ("$", "$.name", ...) always answer with an array of
// matches and are decoded with the JSON[T] rules: exactly one [ ] layer is
// stripped. Legacy paths (".name") answer with the bare value and go through
// the codec, which only strips when the direct parse fails.
func (s *Store[T]) JSONGet(ctx context.Context, key, path string) (T, bool, error) {
	var zero T
	k := s.key(key)
	p := jsonPath(path)
	raw, err := s.rdb.Do(ctx, "JSON.GET", k, p).Result()
	if errors.Is(err, redis.Nil) || (err == nil && raw == nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("redisval: json.get %s %s: %w", k, p, err)
	}

	if strings.HasPrefix(p, "$") {
		v, err := DecodeJSON[T](raw)
		if err != nil {
			s.decodeFailed(k, err)
			return zero, false, err
		}
		return v, true, nil
	}
	v, stripped, err := s.json.decode(raw)
	if err != nil {
		s.decodeFailed(k, err)
		return zero, false, err
	}
	if stripped {
		s.bracketFallback(k, s.json)
	}
	return v, true, nil
}

// Close releases the underlying client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Store[T]) Close(context.Context) error {
	if !s.closeClient {
		return nil
	}
	if err := s.rdb.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		s.log.Warn("close client failed", Fields{"err": err})
		return err
	}
	return nil
}

func (s *Store[T]) key(k string) string {
	if s.ns == "" {
		return k
	}
	return s.ns + ":" + k
}

func (s *Store[T]) bracketFallback(k string, c Codec[T]) {
	s.log.Debug("decoded after stripping brackets", Fields{"key": k, "serializer": c.Serializer().Name()})
	s.hooks.BracketFallback(k)
}

func (s *Store[T]) decodeFailed(k string, err error) {
	s.log.Debug("decode failed", Fields{"key": k, "err": err})
	s.hooks.DecodeFailed(k, err)
}

func jsonPath(p string) string {
	if p == "" {
		return "$"
	}
	return p
}
