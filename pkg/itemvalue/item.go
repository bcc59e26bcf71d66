// Package itemvalue implements labeled, valued items whose visibility and
// enablement follow boolean expressions, the owner-aware collection holding
// them, the bulk condition evaluator, and the value/label codec.
package itemvalue

import (
	"errors"
	"reflect"

	"github.com/google/uuid"

	"github.com/alantheprice/choices/pkg/locale"
	"github.com/alantheprice/choices/pkg/serializer"
	"github.com/alantheprice/choices/pkg/values"
)

const (
	// KindItemValue is the plain item kind.
	KindItemValue = "itemvalue"
	// LocText is the serialization name of the label.
	LocText = "locText"
	// RateValuesRole is the owner property whose items hide enableIf in editors.
	RateValuesRole = "rateValues"
)

var errNilRunner = errors.New("compiler returned no runner")

// Owner is the owning context of an item: it supplies the locale.
type Owner interface {
	Locale() string
}

// PropertyChangeHandler is implemented by owners that want to hear about
// every item property change.
type PropertyChangeHandler interface {
	ItemValuePropertyChanged(item *Item, name string, oldValue, newValue any)
}

// Describable is any source that can describe itself as a kind plus record.
type Describable interface {
	Kind() string
	ToJSON() *serializer.Record
}

// Item is one labeled, valued entry.
type Item struct {
	id    string
	kind  string
	owner Owner

	locText      *locale.String
	localizables map[string]*locale.String
	props        map[string]any
	isVisible    bool

	visibleRunner ConditionRunner
	enableRunner  ConditionRunner

	// OwnerPropertyName is the role the item plays in its owner, e.g. "choices".
	OwnerPropertyName string
	// OriginalItem is an opaque reference to the object this item was projected
	// from. It is never serialized.
	OriginalItem any
}

// New returns an item holding value. A record (a map with a "value" key) or
// a Describable populates all fields; anything else is treated as a literal
// and goes through ParseLiteral.
func New(value any) *Item {
	it := newItem(KindItemValue)
	it.SetData(value)
	return it
}

// NewWithText returns an item with an explicit label.
func NewWithText(value any, text string) *Item {
	it := newItem(KindItemValue)
	if text != "" {
		it.SetText(text)
	}
	it.SetData(value)
	return it
}

func newItem(kind string) *Item {
	it := &Item{
		id:           uuid.NewString(),
		kind:         kind,
		localizables: make(map[string]*locale.String),
		props:        make(map[string]any),
		isVisible:    true,
	}
	it.locText = locale.New(it)
	it.locText.SetTextCallback(func(text string) string {
		if text != "" {
			return text
		}
		if v := it.Value(); !values.IsEmpty(v) {
			return values.ToString(v)
		}
		return ""
	})
	it.locText.OnTextChanged(func(oldValue, newValue string) {
		var next any = newValue
		if newValue == values.ToString(it.Value()) {
			next = nil
		}
		it.propertyChanged("text", oldValue, next)
	})
	for _, p := range serializer.Default.Properties(kind) {
		if p.SerializationProperty == "" || p.SerializationProperty == LocText {
			continue
		}
		name := p.Name
		s := locale.New(it)
		s.OnTextChanged(func(oldValue, newValue string) {
			it.propertyChanged(name, oldValue, newValue)
		})
		it.localizables[p.SerializationProperty] = s
	}
	return it
}

// ID is a process-unique identity, independent of the value.
func (it *Item) ID() string { return it.id }

// Kind returns the registered kind name.
func (it *Item) Kind() string { return it.kind }

// Owner returns the owning context, or nil when unbound.
func (it *Item) Owner() Owner { return it.owner }

// SetOwner binds the item to owner.
func (it *Item) SetOwner(owner Owner) { it.owner = owner }

// Locale returns the owner's locale, or "" when unbound.
func (it *Item) Locale() string {
	if it.owner == nil {
		return ""
	}
	return it.owner.Locale()
}

// Value returns the primary datum.
func (it *Item) Value() any { return it.props["value"] }

// SetValue stores v. A literal containing the item value separator is split:
// the head becomes the value and a non-empty tail becomes the text.
func (it *Item) SetValue(v any) {
	value, text, _ := ParseLiteral(v)
	it.setProperty("value", value)
	if text != "" {
		it.SetText(text)
	}
}

// Text returns the display text, falling back to the stringified value.
func (it *Item) Text() string { return it.locText.CalculatedText() }

// SetText sets the label for the current locale.
func (it *Item) SetText(text string) { it.locText.SetText(text) }

// PureText returns the raw label without the value fallback.
func (it *Item) PureText() string { return it.locText.PureText() }

// HasText reports whether a raw label is set.
func (it *Item) HasText() bool { return it.locText.HasText() }

// LocText exposes the localizable label.
func (it *Item) LocText() *locale.String { return it.locText }

// VisibleIf returns the visibility expression.
func (it *Item) VisibleIf() string { return it.stringProperty("visibleIf") }

// SetVisibleIf replaces the visibility expression. The runner is rebuilt on
// the next evaluation.
func (it *Item) SetVisibleIf(expr string) { it.setProperty("visibleIf", expr) }

// EnableIf returns the enablement expression.
func (it *Item) EnableIf() string { return it.stringProperty("enableIf") }

// SetEnableIf replaces the enablement expression.
func (it *Item) SetEnableIf(expr string) { it.setProperty("enableIf", expr) }

// IsVisible is the visibility flag as of the last visibility pass.
func (it *Item) IsVisible() bool { return it.isVisible }

// SetIsVisible overrides the cached visibility flag.
func (it *Item) SetIsVisible(v bool) { it.isVisible = v }

// IsEnabled is the enablement flag as of the last enablement pass.
func (it *Item) IsEnabled() bool {
	if v, ok := it.props["isEnabled"].(bool); ok {
		return v
	}
	return true
}

// SetIsEnabled overrides the cached enablement flag.
func (it *Item) SetIsEnabled(v bool) { it.setProperty("isEnabled", v) }

// ConditionRunner returns the item's runner for the visibility or enablement
// expression, or nil when the expression is empty. Runners are compiled on
// first use and rebuilt when the expression text changes. An expression that
// fails to compile yields a runner whose every run returns the compile error.
func (it *Item) ConditionRunner(forVisibility bool) ConditionRunner {
	expr, cached := it.EnableIf(), &it.enableRunner
	if forVisibility {
		expr, cached = it.VisibleIf(), &it.visibleRunner
	}
	if expr == "" {
		return nil
	}
	if *cached == nil || (*cached).Expression() != expr {
		*cached = compile(expr)
	}
	return *cached
}

// PropertyValue reads a property by its serialized name.
func (it *Item) PropertyValue(name string) any {
	switch name {
	case "text":
		return it.locText.PureText()
	case "isEnabled":
		return it.IsEnabled()
	}
	for _, p := range serializer.Default.Properties(it.kind) {
		if p.Name == name && p.SerializationProperty != "" {
			if s, ok := it.localizables[p.SerializationProperty]; ok {
				return s.PureText()
			}
		}
	}
	return it.props[name]
}

// SetPropertyValue writes a property by its serialized name, routing value,
// text and localizable fields through their setters.
func (it *Item) SetPropertyValue(name string, v any) {
	switch name {
	case "value":
		it.SetValue(v)
		return
	case "text":
		it.SetText(textOf(v))
		return
	case "visibleIf", "enableIf":
		it.setProperty(name, textOf(v))
		return
	case "isEnabled":
		b, _ := v.(bool)
		it.setProperty(name, b)
		return
	}
	for _, p := range serializer.Default.Properties(it.kind) {
		if p.Name == name && p.SerializationProperty != "" {
			if s, ok := it.localizables[p.SerializationProperty]; ok {
				s.SetText(textOf(v))
				return
			}
		}
	}
	it.setProperty(name, v)
}

// Localizable returns the localizable field stored under a serialization
// name such as "locText", or nil.
func (it *Item) Localizable(name string) serializer.Localizable {
	if name == LocText {
		return labelField{it}
	}
	if s, ok := it.localizables[name]; ok {
		return s
	}
	return nil
}

// LocStrsChanged refreshes every localizable after a locale switch.
func (it *Item) LocStrsChanged() {
	it.locText.StrChanged()
	for _, s := range it.localizables {
		s.StrChanged()
	}
}

// AddUsedLocales appends the explicit locales of every localizable to
// locales, skipping duplicates.
func (it *Item) AddUsedLocales(locales []string) []string {
	seen := make(map[string]bool, len(locales))
	for _, l := range locales {
		seen[l] = true
	}
	add := func(s *locale.String) {
		for _, l := range s.Locales() {
			if !seen[l] {
				seen[l] = true
				locales = append(locales, l)
			}
		}
	}
	add(it.locText)
	for _, s := range it.localizables {
		add(s)
	}
	return locales
}

func (it *Item) stringProperty(name string) string {
	s, _ := it.props[name].(string)
	return s
}

func (it *Item) setProperty(name string, v any) {
	old, had := it.props[name]
	if had && reflect.DeepEqual(old, v) {
		return
	}
	if !had && v == nil {
		return
	}
	it.props[name] = v
	it.propertyChanged(name, old, v)
}

func (it *Item) propertyChanged(name string, oldValue, newValue any) {
	if name == "value" && !it.HasText() {
		it.locText.StrChanged()
	}
	if h, ok := it.owner.(PropertyChangeHandler); ok {
		h.ItemValuePropertyChanged(it, name, oldValue, newValue)
	}
}

// labelField serializes the label, omitting text equal to the value.
type labelField struct{ it *Item }

func (f labelField) JSON() any {
	j := f.it.locText.JSON()
	if s, ok := j.(string); ok && s == values.ToString(f.it.Value()) {
		return nil
	}
	return j
}

func (f labelField) SetJSON(v any) { f.it.locText.SetJSON(v) }

func textOf(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return values.ToString(v)
}
