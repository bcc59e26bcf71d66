// Package locale provides localizable text: one text per locale, resolved
// against the owner's current locale with parent-language fallback.
package locale

import (
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/text/language"

	"github.com/alantheprice/choices/pkg/settings"
)

// DefaultKey stores text entered without an explicit locale.
const DefaultKey = "default"

// Owner supplies the active locale.
type Owner interface {
	Locale() string
}

// Fixed is an Owner with a constant locale.
type Fixed string

// Locale implements Owner.
func (f Fixed) Locale() string { return string(f) }

// String is a localizable text value.
type String struct {
	owner         Owner
	texts         map[string]string
	onGetText     func(text string) string
	onTextChanged func(oldValue, newValue string)
	onChanged     []func()
}

// New returns an empty String bound to owner (which may be nil).
func New(owner Owner) *String {
	return &String{owner: owner, texts: make(map[string]string)}
}

// Owner returns the bound owner.
func (s *String) Owner() Owner { return s.owner }

// SetOwner rebinds the string to another owner.
func (s *String) SetOwner(owner Owner) { s.owner = owner }

// Locale returns the owner's locale, or "" when unbound.
func (s *String) Locale() string {
	if s.owner == nil {
		return ""
	}
	return s.owner.Locale()
}

// Text returns the raw text for the current locale, falling back through
// parent languages, the default entry and the default locale.
func (s *String) Text() string {
	return s.resolve(s.Locale())
}

// PureText is an alias of Text kept for callers that distinguish raw from
// calculated text.
func (s *String) PureText() string { return s.Text() }

// HasText reports whether any text resolves for the current locale.
func (s *String) HasText() bool { return s.Text() != "" }

// IsEmpty reports whether no locale carries text.
func (s *String) IsEmpty() bool { return len(s.texts) == 0 }

// SetText stores text for the current locale. Text for the default locale is
// stored under DefaultKey. An empty text removes the entry.
func (s *String) SetText(text string) {
	s.SetLocaleText(s.Locale(), text)
}

// LocaleText returns the text stored for exactly loc, without fallback.
func (s *String) LocaleText(loc string) string {
	return s.texts[storageKey(loc)]
}

// SetLocaleText stores text for loc.
func (s *String) SetLocaleText(loc, text string) {
	old := s.Text()
	key := storageKey(loc)
	if text == "" {
		delete(s.texts, key)
	} else {
		s.texts[key] = text
	}
	if current := s.Text(); current != old {
		if s.onTextChanged != nil {
			s.onTextChanged(old, current)
		}
		s.StrChanged()
	}
}

// CalculatedText returns the display text: the raw text passed through the
// text callback, which typically falls back to the item value.
func (s *String) CalculatedText() string {
	text := s.Text()
	if s.onGetText != nil {
		return s.onGetText(text)
	}
	return text
}

// SetTextCallback installs the function computing display text from raw text.
func (s *String) SetTextCallback(fn func(text string) string) { s.onGetText = fn }

// OnTextChanged installs the hook called with old and new raw text.
func (s *String) OnTextChanged(fn func(oldValue, newValue string)) { s.onTextChanged = fn }

// Subscribe registers fn to run whenever the displayed text may have changed.
func (s *String) Subscribe(fn func()) { s.onChanged = append(s.onChanged, fn) }

// StrChanged notifies subscribers, e.g. after a locale switch.
func (s *String) StrChanged() {
	for _, fn := range s.onChanged {
		fn()
	}
}

// Locales lists the explicit locales that carry text, sorted.
func (s *String) Locales() []string {
	out := make([]string, 0, len(s.texts))
	for k := range s.texts {
		if k != DefaultKey {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// JSON returns the serialized form: nil when empty, a plain string when only
// default text exists, otherwise an ordered locale->text map with the default
// entry first.
func (s *String) JSON() any {
	if len(s.texts) == 0 {
		return nil
	}
	t, hasDefault := s.texts[DefaultKey]
	if hasDefault && len(s.texts) == 1 {
		return t
	}
	out := orderedmap.New[string, any]()
	if hasDefault {
		out.Set(DefaultKey, t)
	}
	for _, loc := range s.Locales() {
		out.Set(loc, s.texts[loc])
	}
	return out
}

// SetJSON replaces all texts from a serialized form produced by JSON.
func (s *String) SetJSON(v any) {
	old := s.Text()
	s.texts = make(map[string]string)
	switch val := v.(type) {
	case string:
		if val != "" {
			s.texts[DefaultKey] = val
		}
	case map[string]any:
		for k, t := range val {
			if str, ok := t.(string); ok && str != "" {
				s.texts[storageKey(k)] = str
			}
		}
	case *orderedmap.OrderedMap[string, any]:
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			if str, ok := pair.Value.(string); ok && str != "" {
				s.texts[storageKey(pair.Key)] = str
			}
		}
	case map[string]string:
		for k, t := range val {
			if t != "" {
				s.texts[storageKey(k)] = t
			}
		}
	}
	if current := s.Text(); current != old {
		if s.onTextChanged != nil {
			s.onTextChanged(old, current)
		}
		s.StrChanged()
	}
}

func (s *String) resolve(loc string) string {
	for _, key := range fallbackChain(loc) {
		if t := s.texts[key]; t != "" {
			return t
		}
	}
	return ""
}

// storageKey maps a locale to the key texts are stored under.
func storageKey(loc string) string {
	if loc == "" || loc == DefaultKey {
		return DefaultKey
	}
	key := Canonical(loc)
	if key == Canonical(settings.DefaultLocaleName()) {
		return DefaultKey
	}
	return key
}

// Canonical returns the BCP-47 canonical form of loc, or loc lower-cased
// when it does not parse.
func Canonical(loc string) string {
	tag, err := language.Parse(loc)
	if err != nil {
		return strings.ToLower(loc)
	}
	return tag.String()
}

// fallbackChain lists storage keys to try for loc: the locale itself, its
// parent languages, then the default entry. A locale equal to the default
// locale has no key of its own, so its parents are tried before the default
// entry.
func fallbackChain(loc string) []string {
	var chain []string
	add := func(l string) {
		if key := storageKey(l); key != DefaultKey {
			chain = append(chain, key)
		}
	}
	if loc != "" && loc != DefaultKey {
		if tag, err := language.Parse(loc); err == nil {
			for t := tag; t != language.Und; t = t.Parent() {
				add(t.String())
			}
		} else {
			add(loc)
		}
	}
	return append(chain, DefaultKey)
}
