// Package reply inspects raw go-redis replies (the values returned by
// (*redis.Cmd).Val()) without ever mutating them.
package reply

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// Payload returns the bulk bytes carried by v. Only string and []byte replies
// carry a payload; nil (absence) and every other reply kind report ok=false.
// The returned slice aliases v when v is a []byte.
func Payload(v any) (b []byte, ok bool) {
	switch vv := v.(type) {
	case string:
		return []byte(vv), true
	case []byte:
		if vv == nil {
			return nil, false
		}
		return vv, true
	default:
		return nil, false
	}
}

// Describe renders v for diagnostics, e.g. bulk-string("{\"id\":1}"),
// binary-data([0 159 146 150]) or nil.
func Describe(v any) string {
	switch vv := v.(type) {
	case nil:
		return "nil"
	case string:
		return describeBytes([]byte(vv))
	case []byte:
		if vv == nil {
			return "nil"
		}
		return describeBytes(vv)
	case int64:
		return "int(" + strconv.FormatInt(vv, 10) + ")"
	case float64:
		return "double(" + strconv.FormatFloat(vv, 'g', -1, 64) + ")"
	case bool:
		return "boolean(" + strconv.FormatBool(vv) + ")"
	case error:
		return "error(" + strconv.Quote(vv.Error()) + ")"
	case []any:
		return "array(len=" + strconv.Itoa(len(vv)) + ")"
	case map[any]any:
		return "map(len=" + strconv.Itoa(len(vv)) + ")"
	case map[string]any:
		return "map(len=" + strconv.Itoa(len(vv)) + ")"
	default:
		return fmt.Sprintf("%T(%v)", v, v)
	}
}

func describeBytes(b []byte) string {
	if !utf8.Valid(b) {
		return fmt.Sprintf("binary-data(%v)", b)
	}
	return "bulk-string(" + strconv.Quote(string(b)) + ")"
}

// StripBrackets removes exactly one leading '[' and one trailing ']' from s.
// ok is false when s is shorter than two bytes or is not wrapped in a bracket
// pair; s is then returned unchanged.
func StripBrackets(s string) (inner string, ok bool) {
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return s, false
	}
	return s[1 : len(s)-1], true
}
