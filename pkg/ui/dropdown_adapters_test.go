package ui

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/choices/pkg/itemvalue"
)

func sampleCollection() *itemvalue.Collection {
	c := itemvalue.NewCollection(nil)
	c.Append(
		itemvalue.NewWithText("ny", "New York"),
		itemvalue.NewWithText("la", "Los Angeles"),
		itemvalue.NewWithText("sf", "San Francisco"),
	)
	return c
}

func TestChoiceItemDisplay(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		maxWidth int
		expected string
	}{
		{name: "enabled", enabled: true, maxWidth: 40, expected: "Los Angeles"},
		{name: "disabled", enabled: false, maxWidth: 40, expected: "Los Angeles (disabled)"},
		{name: "disabled narrow keeps marker", enabled: false, maxWidth: 20, expected: "Los An... (disabled)"},
		{name: "enabled truncated", enabled: true, maxWidth: 8, expected: "Los A..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := itemvalue.NewWithText("la", "Los Angeles")
			it.SetIsEnabled(tt.enabled)
			c := &ChoiceItem{Item: it}
			assert.Equal(t, tt.expected, c.DisplayCompact(tt.maxWidth))
			assert.LessOrEqual(t, len(c.DisplayCompact(tt.maxWidth)), tt.maxWidth)
		})
	}
}

func TestChoiceItemSearchText(t *testing.T) {
	c := &ChoiceItem{Item: itemvalue.NewWithText("la", "Los Angeles")}
	assert.Equal(t, "Los Angeles la", c.SearchText())
	assert.Equal(t, "la", c.Value())

	plain := &ChoiceItem{Item: itemvalue.New("x")}
	assert.Equal(t, "x", plain.SearchText())
}

func TestItemsFromCollectionSkipsHidden(t *testing.T) {
	c := sampleCollection()
	c.At(1).SetIsVisible(false)

	items := ItemsFromCollection(c)
	require.Len(t, items, 2)
	assert.Equal(t, "New York", items[0].Display())
	assert.Equal(t, "San Francisco", items[1].Display())
}

func TestDropdownSelectsWithArrowsAndEnter(t *testing.T) {
	var out bytes.Buffer
	d := NewDropdownIO(ItemsFromCollection(sampleCollection()), DropdownOptions{Prompt: "City"}, strings.NewReader("\x1b[B\r"), &out)

	item, err := d.Show()
	require.NoError(t, err)
	assert.Equal(t, "la", item.Value())
	assert.Contains(t, out.String(), "City")
}

func TestDropdownFiltersBySearch(t *testing.T) {
	var out bytes.Buffer
	d := NewDropdownIO(ItemsFromCollection(sampleCollection()), DropdownOptions{}, strings.NewReader("sf\r"), &out)

	item, err := d.Show()
	require.NoError(t, err)
	assert.Equal(t, "sf", item.Value())
	assert.Contains(t, out.String(), "[1 matches]")
}

func TestDropdownDisabledItemIsNotSelectable(t *testing.T) {
	c := sampleCollection()
	c.At(0).SetIsEnabled(false)

	var out bytes.Buffer
	// Enter on the disabled first entry is ignored, then move down and select.
	d := NewDropdownIO(ItemsFromCollection(c), DropdownOptions{}, strings.NewReader("\r\x1b[B\r"), &out)

	item, err := d.Show()
	require.NoError(t, err)
	assert.Equal(t, "la", item.Value())
	assert.Contains(t, out.String(), "New York (disabled)")
}

func TestDropdownCancel(t *testing.T) {
	d := NewDropdownIO([]DropdownItem{NewStringItem("a")}, DropdownOptions{}, strings.NewReader("\x1b"), &bytes.Buffer{})
	_, err := d.Show()
	assert.ErrorIs(t, err, ErrCancelled)

	d = NewDropdownIO([]DropdownItem{NewStringItem("a")}, DropdownOptions{}, strings.NewReader("\x03"), &bytes.Buffer{})
	_, err = d.Show()
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "", truncateString("abc", 0))
	assert.Equal(t, "ab", truncateString("abcdef", 2))
	assert.Equal(t, "abc", truncateString("abc", 5))
}

func TestDisplayCompactKeepsRunesWhole(t *testing.T) {
	wide := &ChoiceItem{Item: itemvalue.NewWithText("jp", "日本語のラベルです")}
	got := wide.DisplayCompact(8)
	assert.Equal(t, "日本...", got)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, DisplayWidth(got), 8)

	it := itemvalue.NewWithText("g", "Größenänderung")
	it.SetIsEnabled(false)
	accented := &ChoiceItem{Item: it}
	got = accented.DisplayCompact(20)
	assert.Equal(t, "Größen... (disabled)", got)
	assert.True(t, utf8.ValidString(got))
}

func TestCutWidth(t *testing.T) {
	assert.Equal(t, 4, DisplayWidth("日本"))
	assert.Equal(t, 3, DisplayWidth("Grö"))
	assert.Equal(t, "日", CutWidth("日本", 3))
	assert.Equal(t, "Grö", CutWidth("Größe", 3))
	assert.Equal(t, "abc", CutWidth("abc", 10))
	assert.Equal(t, "日...", truncateString("日本語", 5))
}
