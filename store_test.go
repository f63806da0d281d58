package redisval

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/redisval/serializer"
)

// fakeJSON answers JSON.SET / JSON.GET in-process, since miniredis does not
// ship the RedisJSON module. Only root and top-level field paths are supported,
// which is all the store tests need.
type fakeJSON struct {
	mu   sync.Mutex
	docs map[string]string
}

var _ redis.Hook = (*fakeJSON)(nil)

func (f *fakeJSON) DialHook(next redis.DialHook) redis.DialHook { return next }

func (f *fakeJSON) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (f *fakeJSON) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		c, ok := cmd.(*redis.Cmd)
		if !ok {
			return next(ctx, cmd)
		}
		args := cmd.Args()
		switch cmd.Name() {
		case "json.set":
			f.mu.Lock()
			f.docs[str(args[1])] = str(args[3])
			f.mu.Unlock()
			c.SetVal("OK")
			return nil
		case "json.get":
			v, ok := f.get(str(args[1]), str(args[2]))
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(v)
			return nil
		default:
			return next(ctx, cmd)
		}
	}
}

func (f *fakeJSON) get(key, path string) (string, bool) {
	f.mu.Lock()
	doc, ok := f.docs[key]
	f.mu.Unlock()
	if !ok {
		return "", false
	}
	jsonPath := strings.HasPrefix(path, "$")
	field := strings.TrimPrefix(strings.TrimPrefix(path, "$"), ".")
	val := doc
	if field != "" {
		var m map[string]json.RawMessage
		if err := json.Unmarshal([]byte(doc), &m); err != nil {
			return "", false
		}
		raw, ok := m[field]
		if !ok {
			if jsonPath {
				return "[]", true
			}
			return "", false
		}
		val = string(raw)
	}
	if jsonPath {
		return "[" + val + "]", true
	}
	return val, true
}

func str(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case []byte:
		return string(vv)
	default:
		return ""
	}
}

type recHooks struct {
	mu       sync.Mutex
	fallback []string
	failed   []string
}

func (h *recHooks) BracketFallback(k string) {
	h.mu.Lock()
	h.fallback = append(h.fallback, k)
	h.mu.Unlock()
}

func (h *recHooks) DecodeFailed(k string, _ error) {
	h.mu.Lock()
	h.failed = append(h.failed, k)
	h.mu.Unlock()
}

type recLogger struct {
	NopLogger
	mu    sync.Mutex
	debug []string
}

func (l *recLogger) Debug(msg string, _ Fields) {
	l.mu.Lock()
	l.debug = append(l.debug, msg)
	l.mu.Unlock()
}

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	client.AddHook(&fakeJSON{docs: make(map[string]string)})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func newTestStore[T any](t *testing.T, client redis.UniversalClient, opt func(*Options[T])) *Store[T] {
	t.Helper()
	opts := Options[T]{Client: client}
	if opt != nil {
		opt(&opts)
	}
	s, err := NewStore[T](opts)
	require.NoError(t, err)
	return s
}

func TestNewStoreRequiresClient(t *testing.T) {
	_, err := NewStore[user](Options[user]{})
	require.ErrorIs(t, err, ErrNilClient)
}

func TestStoreSetGet(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	s := newTestStore[user](t, client, func(o *Options[user]) { o.Namespace = "users" })

	require.NoError(t, s.Set(ctx, "1", ziggy(), 0))

	raw, err := mr.Get("users:1")
	require.NoError(t, err)
	assert.Equal(t, ziggyJSON, raw)

	got, ok, err := s.Get(ctx, "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ziggy(), got)
}

func TestStoreGetMiss(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)
	s := newTestStore[user](t, client, nil)

	got, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, user{}, got)
}

func TestStoreGetBracketWrapped(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	hooks := &recHooks{}
	logger := &recLogger{}
	s := newTestStore[user](t, client, func(o *Options[user]) {
		o.Hooks = hooks
		o.Logger = logger
	})

	require.NoError(t, mr.Set("wrapped", "["+ziggyJSON+"]"))
	got, ok, err := s.Get(ctx, "wrapped")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ziggy(), got)
	assert.Equal(t, []string{"wrapped"}, hooks.fallback)
	assert.Empty(t, hooks.failed)
	assert.Equal(t, []string{"decoded after stripping brackets"}, logger.debug)
}

func TestStoreGetUndecodable(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	hooks := &recHooks{}
	s := newTestStore[user](t, client, func(o *Options[user]) { o.Hooks = hooks })

	require.NoError(t, mr.Set("bad", `{"id":"one"}`))
	_, ok, err := s.Get(ctx, "bad")
	require.ErrorIs(t, err, ErrIncompatibleType)
	assert.False(t, ok)
	assert.Equal(t, []string{"bad"}, hooks.failed)

	require.NoError(t, mr.Set("binary", string([]byte{0, 159, 146, 150})))
	_, _, err = s.Get(ctx, "binary")
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestStoreYAML(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	s := newTestStore[user](t, client, func(o *Options[user]) { o.Serializer = serializer.YAML{} })

	require.NoError(t, s.Set(ctx, "y", ziggy(), 0))
	raw, err := mr.Get("y")
	require.NoError(t, err)
	assert.Contains(t, raw, "name: Ziggy")

	got, ok, err := s.Get(ctx, "y")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ziggy(), got)

	// no bracket retry for YAML
	require.NoError(t, mr.Set("wrapped", "["+ziggyJSON+"]"))
	_, _, err = s.Get(ctx, "wrapped")
	require.ErrorIs(t, err, ErrIncompatibleType)
}

func TestStoreTTL(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	s := newTestStore[user](t, client, func(o *Options[user]) { o.DefaultTTL = 5 * time.Minute })

	require.NoError(t, s.Set(ctx, "default", ziggy(), 0))
	assert.Equal(t, 5*time.Minute, mr.TTL("default"))

	require.NoError(t, s.Set(ctx, "explicit", ziggy(), time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("explicit"))

	require.NoError(t, s.Set(ctx, "forever", ziggy(), -1))
	assert.Equal(t, time.Duration(0), mr.TTL("forever"))
	assert.True(t, mr.Exists("forever"))
}

func TestStoreDel(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	s := newTestStore[user](t, client, func(o *Options[user]) { o.Namespace = "ns" })

	require.NoError(t, s.Set(ctx, "k", ziggy(), 0))
	require.NoError(t, s.Del(ctx, "k"))
	assert.False(t, mr.Exists("ns:k"))
}

func TestStoreWorksWithGoRedisScan(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)
	users := NewCodec[user](nil)

	require.NoError(t, client.Set(ctx, "scan", users.Arg(ziggy()), 0).Err())
	var u user
	require.NoError(t, client.Get(ctx, "scan").Scan(users.Into(&u)))
	assert.Equal(t, ziggy(), u)

	var w JSON[user]
	require.NoError(t, client.Set(ctx, "wrapped", "["+ziggyJSON+"]", 0).Err())
	require.NoError(t, client.Get(ctx, "wrapped").Scan(&w))
	assert.Equal(t, ziggy(), w.Get())

	// plain value into the wrapper is rejected
	err := client.Get(ctx, "scan").Scan(&w)
	require.ErrorIs(t, err, ErrNotBracketed)

	got, err := users.DecodeCmd(client.Do(ctx, "GET", "scan"))
	require.NoError(t, err)
	assert.Equal(t, ziggy(), got)

	_, err = users.DecodeCmd(client.Do(ctx, "GET", "nope"))
	require.ErrorIs(t, err, ErrIncompatibleType)
}

func TestStoreJSONRoot(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)
	s := newTestStore[user](t, client, nil)

	require.NoError(t, s.JSONSet(ctx, "doc", "", ziggy()))

	got, ok, err := s.JSONGet(ctx, "doc", "$")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ziggy(), got)

	// legacy root path returns the bare document
	got, ok, err = s.JSONGet(ctx, "doc", ".")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ziggy(), got)

	_, ok, err = s.JSONGet(ctx, "missing", "$")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreJSONFields(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)
	users := newTestStore[user](t, client, func(o *Options[user]) { o.Serializer = serializer.YAML{} })
	require.NoError(t, users.JSONSet(ctx, "doc", "$", ziggy()))

	names := newTestStore[string](t, client, nil)
	name, ok, err := names.JSONGet(ctx, "doc", "$.name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ziggy", name)

	name, ok, err = names.JSONGet(ctx, "doc", ".name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ziggy", name)

	addrs := newTestStore[[]address](t, client, nil)
	got, ok, err := addrs.JSONGet(ctx, "doc", "$.addresses")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ziggy().Addresses, got)

	// a JSONPath with no match answers [] which has nothing inside to decode
	hooks := &recHooks{}
	missing := newTestStore[string](t, client, func(o *Options[string]) { o.Hooks = hooks })
	_, _, err = missing.JSONGet(ctx, "doc", "$.nickname")
	require.ErrorIs(t, err, ErrDeserializeFailed)
	assert.Equal(t, []string{"doc"}, hooks.failed)
}

func TestStoreClose(t *testing.T) {
	ctx := context.Background()

	shared, _ := newTestClient(t)
	s := newTestStore[user](t, shared, nil)
	require.NoError(t, s.Close(ctx))
	require.NoError(t, shared.Ping(ctx).Err(), "borrowed client must stay open")

	owned, _ := newTestClient(t)
	s = newTestStore[user](t, owned, func(o *Options[user]) { o.CloseClient = true })
	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx))
	require.True(t, errors.Is(owned.Ping(ctx).Err(), redis.ErrClosed))
}

func TestStoreTransportError(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:0",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
		Dialer: func(context.Context, string, string) (net.Conn, error) {
			return nil, errors.New("dial refused")
		},
	})
	t.Cleanup(func() { _ = client.Close() })
	s := newTestStore[user](t, client, nil)

	_, ok, err := s.Get(ctx, "k")
	require.Error(t, err)
	assert.False(t, ok)
	assert.NotErrorIs(t, err, ErrIncompatibleType)
	assert.Contains(t, err.Error(), "dial refused")
}
