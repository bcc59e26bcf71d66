// Package serializer keeps the per-kind property registry that drives record
// conversion, and the generic walkers that turn objects into ordered records
// and back.
package serializer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownKind is returned when a kind has not been registered.
var ErrUnknownKind = errors.New("unknown kind")

// Property describes one serializable field of a kind.
type Property struct {
	Name string
	// Type is the declared value type, e.g. "condition". Empty means any.
	Type    string
	Default any
	// IsRequired marks properties written with a leading "!".
	IsRequired bool
	// SerializationProperty names the localizable the field is read from
	// and written to, e.g. "locText" for "text".
	SerializationProperty string
	// ShowMode is an editor hint such as "form".
	ShowMode string
	// Visible reports whether an editor should offer the property for obj.
	Visible func(obj any) bool
}

// ParseProperty builds a Property from the short form "!name:type".
func ParseProperty(def string) Property {
	p := Property{}
	if strings.HasPrefix(def, "!") {
		p.IsRequired = true
		def = def[1:]
	}
	if name, typ, ok := strings.Cut(def, ":"); ok {
		p.Name, p.Type = name, typ
	} else {
		p.Name = def
	}
	return p
}

// Creator builds a fresh object of a kind.
type Creator func() any

// Class is a registered kind.
type Class struct {
	Name       string
	Parent     string
	Properties []Property
	Creator    Creator
}

// Registry maps kinds to their classes.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class)}
}

// Default is the process-wide registry.
var Default = NewRegistry()

// AddClass registers (or replaces) kind name. Properties are given in
// declaration order; parent may be empty.
func (r *Registry) AddClass(name string, props []Property, creator Creator, parent string) *Class {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &Class{Name: name, Parent: parent, Properties: append([]Property(nil), props...), Creator: creator}
	r.classes[name] = c
	return c
}

// AddProperty appends p to a registered kind, replacing a property with the
// same name.
func (r *Registry) AddProperty(kind string, p Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.classes[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	for i := range c.Properties {
		if c.Properties[i].Name == p.Name {
			c.Properties[i] = p
			return nil
		}
	}
	c.Properties = append(c.Properties, p)
	return nil
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.classes[kind]
	return ok
}

// Properties returns the properties of kind, inherited ones first. A child
// property overrides the parent's property of the same name in place.
func (r *Registry) Properties(kind string) []Property {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var chain []*Class
	seen := make(map[string]bool)
	for name := kind; name != "" && !seen[name]; {
		seen[name] = true
		c, ok := r.classes[name]
		if !ok {
			break
		}
		chain = append(chain, c)
		name = c.Parent
	}
	var out []Property
	index := make(map[string]int)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, p := range chain[i].Properties {
			if at, ok := index[p.Name]; ok {
				out[at] = p
				continue
			}
			index[p.Name] = len(out)
			out = append(out, p)
		}
	}
	return out
}

// FindProperty looks up one property of kind by name.
func (r *Registry) FindProperty(kind, name string) (Property, bool) {
	for _, p := range r.Properties(kind) {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// VisibleProperties returns the properties an editor should show for obj.
func (r *Registry) VisibleProperties(kind string, obj any) []Property {
	var out []Property
	for _, p := range r.Properties(kind) {
		if p.Visible == nil || p.Visible(obj) {
			out = append(out, p)
		}
	}
	return out
}

// IsDescendantOf reports whether kind is parent or inherits from it.
func (r *Registry) IsDescendantOf(kind, parent string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	for name := kind; name != "" && !seen[name]; {
		if name == parent {
			return true
		}
		seen[name] = true
		c, ok := r.classes[name]
		if !ok {
			return false
		}
		name = c.Parent
	}
	return false
}

// CreateClass builds a new object of kind.
func (r *Registry) CreateClass(kind string) (any, error) {
	r.mu.RLock()
	c, ok := r.classes[kind]
	r.mu.RUnlock()
	if !ok || c.Creator == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return c.Creator(), nil
}
