package ui

import "errors"

var (
	// ErrCancelled is returned when the user presses ESC.
	ErrCancelled = errors.New("cancelled")
	// ErrInterrupted is returned on Ctrl+C.
	ErrInterrupted = errors.New("interrupted")
)

// DropdownItem represents an item that can be displayed in a dropdown
type DropdownItem interface {
	// Display returns the string to show in the dropdown
	Display() string
	// SearchText returns the text used for searching (can be same as Display)
	SearchText() string
	// Value returns the actual value when selected
	Value() any
	// Enabled reports whether the item may be chosen. Disabled items are
	// still listed.
	Enabled() bool
}

// DropdownOptions configures the dropdown behavior
type DropdownOptions struct {
	// Prompt shown above the items
	Prompt string
	// SearchPrompt shown at the bottom (default: "Search: ")
	SearchPrompt string
	// MaxHeight limits the number of items shown (0 = auto based on terminal)
	MaxHeight int
	// ShowCounts shows item counts in scroll indicators
	ShowCounts bool
}
