package serializer

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ProtoJSONName is the registry name of the protobuf JSON serializer.
const ProtoJSONName = "protojson"

// ProtoJSON serializes protobuf messages using the canonical protobuf JSON
// mapping. Values must implement proto.Message. Unmarshal also accepts a
// pointer to a message pointer (e.g. **pb.User) and allocates the message when
// it is nil, which is what redisval.Codec[*pb.User] hands over.
type ProtoJSON struct {
	// UseProtoNames renders field names as in the .proto file instead of lowerCamelCase.
	UseProtoNames bool
	// DiscardUnknown ignores unknown fields on Unmarshal instead of failing.
	DiscardUnknown bool
}

func (ProtoJSON) Name() string { return ProtoJSONName }

func (p ProtoJSON) Marshal(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("protojson: %T is not a proto.Message", v)
	}
	return protojson.MarshalOptions{UseProtoNames: p.UseProtoNames}.Marshal(m)
}

func (p ProtoJSON) Unmarshal(data []byte, v any) error {
	opts := protojson.UnmarshalOptions{DiscardUnknown: p.DiscardUnknown}
	if m, ok := v.(proto.Message); ok {
		return opts.Unmarshal(data, m)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Pointer {
		return fmt.Errorf("protojson: %T is not a proto.Message", v)
	}
	elem := rv.Elem()
	if elem.IsNil() {
		elem.Set(reflect.New(elem.Type().Elem()))
	}
	m, ok := elem.Interface().(proto.Message)
	if !ok {
		return fmt.Errorf("protojson: %T is not a proto.Message", v)
	}
	return opts.Unmarshal(data, m)
}
