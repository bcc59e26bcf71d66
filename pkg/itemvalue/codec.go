package itemvalue

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/alantheprice/choices/pkg/serializer"
	"github.com/alantheprice/choices/pkg/settings"
	"github.com/alantheprice/choices/pkg/values"
)

// ParseLiteral splits raw at the first item value separator. Empty and
// structured inputs are returned unchanged with hasText false. Without a
// separator the value keeps its original type.
func ParseLiteral(raw any) (value any, text string, hasText bool) {
	if values.IsEmpty(raw) || isStructured(raw) {
		return raw, "", false
	}
	str := values.ToString(raw)
	sep := settings.ItemValueSeparator()
	head, tail, found := strings.Cut(str, sep)
	if !found {
		return raw, "", false
	}
	return head, tail, true
}

func isStructured(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return true
	}
	return false
}

// kindView lets an item of an unregistered kind serialize with the plain
// item properties.
type kindView struct {
	*Item
	kind string
}

func (k kindView) Kind() string { return k.kind }

func (it *Item) serializable() serializer.Object {
	if serializer.Default.Has(it.kind) {
		return it
	}
	return kindView{Item: it, kind: KindItemValue}
}

// ToJSON returns every non-default field, in registration order.
func (it *Item) ToJSON() *serializer.Record {
	return serializer.Default.ToJSON(it.serializable())
}

// Data returns the compact form of the item: the bare value when value is the
// only non-default field, otherwise the full record. A "pos" key is dropped
// from structured values.
func (it *Item) Data() any {
	rec := it.ToJSON()
	if v, ok := rec.Get("value"); ok {
		if m, ok := v.(map[string]any); ok {
			if _, has := m["pos"]; has {
				stripped := make(map[string]any, len(m)-1)
				for k, x := range m {
					if k != "pos" {
						stripped[k] = x
					}
				}
				rec.Set("value", stripped)
				v = stripped
			}
		}
		if rec.Len() == 1 && !values.IsEmpty(v) {
			return v
		}
	}
	return rec
}

// SetData populates the item from a record, a Describable, or a literal
// value. Empty input is ignored.
func (it *Item) SetData(src any) {
	if values.IsEmpty(src) {
		return
	}
	if rec, ok := src.(*serializer.Record); ok && rec.Len() == 0 {
		return
	}
	if rec, ok := recordOf(src); ok {
		serializer.Default.FromJSON(rec, it.serializable())
	} else {
		it.SetValue(src)
	}
	it.locText.StrChanged()
}

// recordOf reports whether src is shaped like a record, one with a "value"
// field, and returns it as a plain map.
func recordOf(src any) (map[string]any, bool) {
	var m map[string]any
	switch s := src.(type) {
	case Describable:
		m = serializer.RecordToMap(s.ToJSON())
		if _, ok := m["value"]; !ok {
			m["value"] = nil
		}
		return m, true
	case *serializer.Record:
		m = serializer.RecordToMap(s)
	case map[string]any:
		m = s
	default:
		return nil, false
	}
	_, ok := m["value"]
	return m, ok
}

// CreateItem builds an item of kind (or, when kind is empty, the source's own
// kind) and populates it from source.
func CreateItem(source any, kind string) (*Item, error) {
	var it *Item
	switch {
	case kind != "":
		obj, err := serializer.Default.CreateClass(kind)
		if err != nil {
			return nil, err
		}
		created, ok := obj.(*Item)
		if !ok {
			return nil, fmt.Errorf("kind %q does not create items", kind)
		}
		it = created
	default:
		if d, ok := source.(Describable); ok {
			it = newItem(d.Kind())
		} else {
			it = newItem(KindItemValue)
		}
	}
	it.SetData(source)
	if src, ok := source.(*Item); ok && src.OriginalItem != nil {
		it.OriginalItem = src.OriginalItem
	}
	return it, nil
}

// FromLiteralOrRecord builds an item from a record (anything carrying a
// "value" field) or from a bare literal.
func FromLiteralOrRecord(input any) *Item {
	it, err := CreateItem(input, "")
	if err != nil {
		return New(input)
	}
	return it
}
