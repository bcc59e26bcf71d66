package serializer

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/alantheprice/choices/pkg/values"
)

// Record is an ordered field->value mapping.
type Record = orderedmap.OrderedMap[string, any]

// NewRecord returns an empty Record.
func NewRecord() *Record {
	return orderedmap.New[string, any]()
}

// Object is anything the walkers can read and populate.
type Object interface {
	Kind() string
	PropertyValue(name string) any
	SetPropertyValue(name string, value any)
}

// Localizable is a field stored through a localizable text object.
type Localizable interface {
	JSON() any
	SetJSON(v any)
}

// LocalizableOwner exposes localizable fields by serialization name.
type LocalizableOwner interface {
	Localizable(name string) Localizable
}

// ToJSON writes every non-default property of obj, in registry order.
func (r *Registry) ToJSON(obj Object) *Record {
	rec := NewRecord()
	for _, p := range r.Properties(obj.Kind()) {
		v := r.read(obj, p)
		if isDefault(p, v) {
			continue
		}
		rec.Set(p.Name, v)
	}
	return rec
}

// FromJSON populates obj from data, visiting properties in registry order so
// that dependent fields (text after value) see their prerequisites.
// Unregistered keys are ignored.
func (r *Registry) FromJSON(data map[string]any, obj Object) {
	for _, p := range r.Properties(obj.Kind()) {
		v, ok := data[p.Name]
		if !ok {
			continue
		}
		if p.SerializationProperty != "" {
			if lo, ok := obj.(LocalizableOwner); ok {
				if loc := lo.Localizable(p.SerializationProperty); loc != nil {
					loc.SetJSON(v)
					continue
				}
			}
		}
		obj.SetPropertyValue(p.Name, v)
	}
}

// RecordToMap converts rec to a plain map, recursing into nested records.
func RecordToMap(rec *Record) map[string]any {
	out := make(map[string]any, rec.Len())
	for pair := rec.Oldest(); pair != nil; pair = pair.Next() {
		if nested, ok := pair.Value.(*Record); ok {
			out[pair.Key] = RecordToMap(nested)
			continue
		}
		out[pair.Key] = pair.Value
	}
	return out
}

func (r *Registry) read(obj Object, p Property) any {
	if p.SerializationProperty != "" {
		if lo, ok := obj.(LocalizableOwner); ok {
			if loc := lo.Localizable(p.SerializationProperty); loc != nil {
				return loc.JSON()
			}
		}
	}
	return obj.PropertyValue(p.Name)
}

func isDefault(p Property, v any) bool {
	if values.IsEmpty(v) {
		return true
	}
	if p.Default != nil && values.Equal(v, p.Default) {
		return true
	}
	return false
}
