// Package redisval adds typed values to go-redis.
//
// A Codec[T] binds a Go type to a text serializer (JSON by default, YAML, TOML
// or protobuf JSON from the serializer package) and converts in both
// directions:
//
//	var users = redisval.NewCodec[User](nil)
//
//	rdb.Set(ctx, "user", users.Arg(u), 0)              // encode on write
//	err := rdb.Get(ctx, "user").Scan(users.Into(&u))   // decode on read
//	u, err := users.Decode(rdb.Do(ctx, "JSON.GET", "user", "$").Val())
//
// Types that should always behave this way can delegate from their own
// MarshalBinary/UnmarshalBinary methods, which go-redis calls automatically:
//
//	func (u User) MarshalBinary() ([]byte, error) { return users.Encode(u) }
//	func (u *User) UnmarshalBinary(b []byte) error {
//		v, err := users.DecodeBytes(b)
//		*u = v
//		return err
//	}
//
// RedisJSON wraps JSONPath results in an extra array layer. With the default
// JSON serializer a Codec retries once without that layer; JSON[T] always
// strips it. Conversion failures are *TypeError values matching one of
// ErrInvalidEncoding, ErrIncompatibleType, ErrNotBracketed or
// ErrDeserializeFailed.
//
// Store[T] puts the two together over a redis.UniversalClient for plain
// GET/SET and JSON.GET/JSON.SET access.
package redisval
