// Package values implements the loose value semantics shared by item lookup,
// serialization and condition evaluation: emptiness, permissive equality,
// numeric coercion and display stringification.
package values

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Equaler lets structured values define their own equality.
type Equaler interface {
	Equals(other any) bool
}

// IsEmpty reports whether v is absent: nil, "", an empty sequence, or a map
// whose every entry is itself empty.
func IsEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		for _, x := range val {
			if !IsEmpty(x) {
				return false
			}
		}
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if !IsEmpty(iter.Value().Interface()) {
				return false
			}
		}
		return true
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// ToNumber converts numeric values and numeric strings to float64.
func ToNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, !math.IsNaN(n)
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Equal compares two values the way choice matching expects: two empty values
// are equal, numbers and numeric strings compare numerically, sequences and
// maps compare structurally.
func Equal(a, b any) bool {
	if eq, ok := a.(Equaler); ok {
		return eq.Equals(b)
	}
	if eq, ok := b.(Equaler); ok {
		return eq.Equals(a)
	}
	if a == nil || b == nil {
		return IsEmpty(a) && IsEmpty(b)
	}

	if an, ok := ToNumber(a); ok {
		if bn, ok := ToNumber(b); ok {
			return an == bn
		}
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if isSequence(ra) && isSequence(rb) {
		if ra.Len() != rb.Len() {
			return false
		}
		for i := 0; i < ra.Len(); i++ {
			if !Equal(ra.Index(i).Interface(), rb.Index(i).Interface()) {
				return false
			}
		}
		return true
	}
	if ra.Kind() == reflect.Map && rb.Kind() == reflect.Map {
		return mapsEqual(ra, rb)
	}
	return reflect.DeepEqual(a, b)
}

func isSequence(rv reflect.Value) bool {
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}

func mapsEqual(ra, rb reflect.Value) bool {
	if ra.Len() != rb.Len() {
		return false
	}
	iter := ra.MapRange()
	for iter.Next() {
		key := iter.Key()
		if key.Type() != rb.Type().Key() {
			return false
		}
		other := rb.MapIndex(key)
		if !other.IsValid() {
			return false
		}
		if !Equal(iter.Value().Interface(), other.Interface()) {
			return false
		}
	}
	return true
}

// Compare orders two values numerically when both are numbers, otherwise
// lexically when both are strings. ok is false when they are not comparable.
func Compare(a, b any) (cmp int, ok bool) {
	if an, aok := ToNumber(a); aok {
		if bn, bok := ToNumber(b); bok {
			switch {
			case an < bn:
				return -1, true
			case an > bn:
				return 1, true
			}
			return 0, true
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

// ToString renders a value for display.
func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case fmt.Stringer:
		return val.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = ToString(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	case reflect.Map, reflect.Struct, reflect.Pointer:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
	}
	return fmt.Sprint(v)
}

// Truthy reports the boolean meaning of an expression result.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	}
	if n, ok := ToNumber(v); ok {
		return n != 0
	}
	return !IsEmpty(v)
}
