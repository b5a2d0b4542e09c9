// Package jsonval models JSON documents as a closed six-kind tagged variant
// with ordered object members.
//
// The standard map[string]any decoding loses member order and iterates
// non-deterministically, which would make downstream fingerprints
// non-reproducible. This package keeps members in document order (or sorted
// order when converting from native Go maps, which carry no order at all)
// and preserves number text via [json.Number].
package jsonval

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Sumatoshi-tech/treesketch/pkg/alg/mapx"
)

// Kind identifies which variant a Value holds.
type Kind uint8

// The six JSON value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Member is a single object member. Members keep their document position.
type Member struct {
	Key   string
	Value Value
}

// Value is one JSON value. Exactly one of the payload fields is meaningful,
// selected by Kind. The zero value is JSON null.
type Value struct {
	Kind Kind
	Bool bool
	Num  json.Number
	Str  string
	Arr  []Value
	Obj  []Member
}

// Constructors for the scalar kinds.

// Null returns the JSON null value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a JSON boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Number returns a JSON number value from its textual form.
func Number(text string) Value { return Value{Kind: KindNumber, Num: json.Number(text)} }

// String returns a JSON string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Array returns a JSON array value.
func Array(elems ...Value) Value { return Value{Kind: KindArray, Arr: elems} }

// Object returns a JSON object value with members in the given order.
func Object(members ...Member) Value { return Value{Kind: KindObject, Obj: members} }

// IsComposite reports whether v is a non-null array or object.
func (v Value) IsComposite() bool {
	return v.Kind == KindArray || v.Kind == KindObject
}

// ScalarText returns the canonical textual form of a scalar value: the
// string itself for strings, the decimal text for numbers, "true"/"false"
// for booleans, and "null" for null. Calling it on a composite value
// returns the empty string.
func (v Value) ScalarText() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return v.Num.String()
	case KindString:
		return v.Str
	case KindArray, KindObject:
		return ""
	default:
		return ""
	}
}

// FromAny converts a native Go value into a Value. Maps become objects with
// members in sorted key order (Go maps carry no insertion order; sorting is
// the only deterministic choice). Slices become arrays. Unrecognized types
// degrade to string leaves via their default formatting rather than failing.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case json.Number:
		return Value{Kind: KindNumber, Num: t}
	case int:
		return Number(strconv.FormatInt(int64(t), 10))
	case int32:
		return Number(strconv.FormatInt(int64(t), 10))
	case int64:
		return Number(strconv.FormatInt(t, 10))
	case uint:
		return Number(strconv.FormatUint(uint64(t), 10))
	case uint64:
		return Number(strconv.FormatUint(t, 10))
	case float32:
		return Number(formatFloat(float64(t)))
	case float64:
		return Number(formatFloat(t))
	case []any:
		elems := make([]Value, 0, len(t))
		for _, e := range t {
			elems = append(elems, FromAny(e))
		}

		return Value{Kind: KindArray, Arr: elems}
	case map[string]any:
		members := make([]Member, 0, len(t))
		for _, k := range mapx.SortedKeys(t) {
			members = append(members, Member{Key: k, Value: FromAny(t[k])})
		}

		return Value{Kind: KindObject, Obj: members}
	default:
		return String(fmt.Sprint(v))
	}
}

// formatFloat renders a float the way encoding/json does, so converted
// values and parsed documents stringify identically.
func formatFloat(f float64) string {
	data, err := json.Marshal(f)
	if err != nil {
		// NaN / Inf are not valid JSON numbers; fall back to strconv text.
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	return string(data)
}
