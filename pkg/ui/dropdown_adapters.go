package ui

import (
	"strings"

	"golang.org/x/text/width"

	"github.com/alantheprice/choices/pkg/itemvalue"
	"github.com/alantheprice/choices/pkg/values"
)

// StringItem is a simple adapter for string selections
type StringItem struct {
	value string
}

func NewStringItem(value string) *StringItem {
	return &StringItem{value: value}
}

func (s *StringItem) Display() string    { return s.value }
func (s *StringItem) SearchText() string { return s.value }
func (s *StringItem) Value() any         { return s.value }
func (s *StringItem) Enabled() bool      { return true }

// ChoiceItem adapts an item value for dropdown display.
type ChoiceItem struct {
	Item *itemvalue.Item
}

// Display shows the item's label, marking disabled items.
func (c *ChoiceItem) Display() string {
	text := c.Item.Text()
	if !c.Item.IsEnabled() {
		return text + " (disabled)"
	}
	return text
}

// DisplayCompact fits the label into maxWidth, keeping the disabled marker
// when there is room for it.
func (c *ChoiceItem) DisplayCompact(maxWidth int) string {
	full := c.Display()
	if DisplayWidth(full) <= maxWidth || c.Item.IsEnabled() {
		return truncateString(full, maxWidth)
	}
	const marker = " (disabled)"
	if maxWidth <= len(marker)+3 {
		return truncateString(c.Item.Text(), maxWidth)
	}
	return truncateString(c.Item.Text(), maxWidth-len(marker)) + marker
}

// SearchText matches on both the label and the stored value.
func (c *ChoiceItem) SearchText() string {
	text := c.Item.Text()
	val := values.ToString(c.Item.Value())
	if strings.EqualFold(text, val) {
		return text
	}
	return text + " " + val
}

func (c *ChoiceItem) Value() any    { return c.Item.Value() }
func (c *ChoiceItem) Enabled() bool { return c.Item.IsEnabled() }

// ItemsFromCollection returns dropdown entries for the collection's visible items.
func ItemsFromCollection(c *itemvalue.Collection) []DropdownItem {
	visible := c.VisibleItems()
	out := make([]DropdownItem, 0, len(visible))
	for _, it := range visible {
		out = append(out, &ChoiceItem{Item: it})
	}
	return out
}

// DisplayWidth returns the number of terminal columns s occupies. East
// Asian wide and fullwidth runes take two.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

// CutWidth returns the longest prefix of s that fits in cols columns,
// never splitting a rune.
func CutWidth(s string, cols int) string {
	used := 0
	for i, r := range s {
		w := runeWidth(r)
		if used+w > cols {
			return s[:i]
		}
		used += w
	}
	return s
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

func truncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if DisplayWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return CutWidth(s, maxLen)
	}
	return CutWidth(s, maxLen-3) + "..."
}
