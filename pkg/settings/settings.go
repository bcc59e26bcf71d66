// Package settings holds process-wide options shared by every item collection.
package settings

import (
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"
)

const (
	// DefaultItemValueSeparator splits "value|label" literals.
	DefaultItemValueSeparator = "|"
	// DefaultLocale is used when neither the owner nor the text supplies one.
	DefaultLocale = "en"
)

// ErrInvalidSeparator is returned when the separator is not exactly one character.
var ErrInvalidSeparator = errors.New("item value separator must be a single character")

// Settings is a snapshot of the current process-wide options.
type Settings struct {
	ItemValueSeparator string
	DefaultLocale      string
}

var (
	mu      sync.RWMutex
	current = defaults()
)

func defaults() Settings {
	return Settings{
		ItemValueSeparator: DefaultItemValueSeparator,
		DefaultLocale:      DefaultLocale,
	}
}

// Get returns a copy of the current settings.
func Get() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// ItemValueSeparator returns the separator used when parsing item literals.
func ItemValueSeparator() string {
	mu.RLock()
	defer mu.RUnlock()
	return current.ItemValueSeparator
}

// SetItemValueSeparator changes the separator. Call it once at start-up.
func SetItemValueSeparator(sep string) error {
	if utf8.RuneCountInString(sep) != 1 {
		return fmt.Errorf("%w: %q", ErrInvalidSeparator, sep)
	}
	mu.Lock()
	current.ItemValueSeparator = sep
	mu.Unlock()
	return nil
}

// DefaultLocaleName returns the locale used for text stored without an explicit locale.
func DefaultLocaleName() string {
	mu.RLock()
	defer mu.RUnlock()
	return current.DefaultLocale
}

// SetDefaultLocale changes the default locale. An empty value restores the built-in default.
func SetDefaultLocale(loc string) {
	if loc == "" {
		loc = DefaultLocale
	}
	mu.Lock()
	current.DefaultLocale = loc
	mu.Unlock()
}

// Reset restores the built-in defaults.
func Reset() {
	mu.Lock()
	current = defaults()
	mu.Unlock()
}
