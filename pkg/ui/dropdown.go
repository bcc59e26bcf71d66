package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Dropdown provides an interactive dropdown selector with search
type Dropdown struct {
	items         []DropdownItem
	filteredItems []DropdownItem
	selectedIndex int
	windowStart   int
	searchText    string
	options       DropdownOptions

	in       *bufio.Reader
	out      io.Writer
	fd       int
	oldState *term.State
}

// NewDropdown creates a dropdown reading keys from stdin and drawing to stdout.
func NewDropdown(items []DropdownItem, options DropdownOptions) *Dropdown {
	d := NewDropdownIO(items, options, os.Stdin, os.Stdout)
	d.fd = int(os.Stdin.Fd())
	return d
}

// NewDropdownIO creates a dropdown over arbitrary streams. Raw mode is only
// requested when the dropdown was built by NewDropdown on a terminal.
func NewDropdownIO(items []DropdownItem, options DropdownOptions, in io.Reader, out io.Writer) *Dropdown {
	if options.SearchPrompt == "" {
		options.SearchPrompt = "Search: "
	}
	d := &Dropdown{
		items:   items,
		options: options,
		in:      bufio.NewReader(in),
		out:     out,
		fd:      -1,
	}
	d.filterItems()
	return d
}

// Show displays the dropdown and returns the selected item
func (d *Dropdown) Show() (DropdownItem, error) {
	if d.fd >= 0 && term.IsTerminal(d.fd) {
		var err error
		d.oldState, err = term.MakeRaw(d.fd)
		if err != nil {
			return nil, fmt.Errorf("failed to set raw mode: %w", err)
		}
		defer d.restore()

		// Alternate screen, cleared, cursor hidden
		fmt.Fprint(d.out, "\033[?1049h\033[2J\033[?25l")
	}

	d.updateDisplay()
	for {
		b, err := d.in.ReadByte()
		if err != nil {
			return nil, err
		}
		item, done, err := d.handleKey(b)
		if done || err != nil {
			return item, err
		}
	}
}

// handleKey applies one input byte. done is true when the dropdown should close.
func (d *Dropdown) handleKey(b byte) (DropdownItem, bool, error) {
	switch b {
	case 27: // ESC or arrow keys
		next, err := d.in.ReadByte()
		if err != nil || next != '[' {
			return nil, true, ErrCancelled
		}
		arrow, err := d.in.ReadByte()
		if err != nil {
			return nil, true, ErrCancelled
		}
		switch arrow {
		case 'A':
			d.moveSelection(-1)
		case 'B':
			d.moveSelection(1)
		}

	case 13, 10: // Enter
		if len(d.filteredItems) > 0 {
			item := d.filteredItems[d.selectedIndex]
			if item.Enabled() {
				return item, true, nil
			}
		}

	case 127, 8: // Backspace
		if len(d.searchText) > 0 {
			d.searchText = d.searchText[:len(d.searchText)-1]
			d.filterItems()
			d.updateDisplay()
		}

	case 3: // Ctrl+C
		return nil, true, ErrInterrupted

	default:
		if b >= 32 && b < 127 {
			d.searchText += string(b)
			d.filterItems()
			d.updateDisplay()
		}
	}
	return nil, false, nil
}

func (d *Dropdown) moveSelection(delta int) {
	if len(d.filteredItems) == 0 {
		return
	}

	d.selectedIndex += delta
	if d.selectedIndex < 0 {
		d.selectedIndex = 0
	} else if d.selectedIndex >= len(d.filteredItems) {
		d.selectedIndex = len(d.filteredItems) - 1
	}

	d.updateDisplay()
}

func (d *Dropdown) filterItems() {
	d.selectedIndex = 0
	d.windowStart = 0
	if d.searchText == "" {
		d.filteredItems = d.items
		return
	}

	searchLower := strings.ToLower(d.searchText)
	d.filteredItems = make([]DropdownItem, 0)
	for _, item := range d.items {
		if strings.Contains(strings.ToLower(item.SearchText()), searchLower) {
			d.filteredItems = append(d.filteredItems, item)
		}
	}
}

func (d *Dropdown) size() (int, int) {
	width, height := 0, 0
	if d.fd >= 0 {
		width, height, _ = term.GetSize(d.fd)
	}
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}
	return width, height
}

func (d *Dropdown) updateDisplay() {
	termWidth, termHeight := d.size()
	fmt.Fprint(d.out, "\033[?25l\033[H")

	reservedLines := 4
	if d.options.Prompt != "" {
		reservedLines++
	}
	maxItems := termHeight - reservedLines
	if d.options.MaxHeight > 0 && d.options.MaxHeight < maxItems {
		maxItems = d.options.MaxHeight
	}

	// Keep selection inside the window
	if d.selectedIndex < d.windowStart {
		d.windowStart = d.selectedIndex
	} else if d.selectedIndex >= d.windowStart+maxItems {
		d.windowStart = d.selectedIndex - maxItems + 1
	}

	if d.options.Prompt != "" {
		fmt.Fprintf(d.out, "%s\r\n\r\n", d.options.Prompt)
	}

	if d.windowStart > 0 {
		if d.options.ShowCounts {
			fmt.Fprintf(d.out, "  ↑ %d more items above\r\n", d.windowStart)
		} else {
			fmt.Fprint(d.out, "  ↑ more items above\r\n")
		}
	}

	windowEnd := d.windowStart + maxItems
	if windowEnd > len(d.filteredItems) {
		windowEnd = len(d.filteredItems)
	}

	for i := d.windowStart; i < windowEnd; i++ {
		item := d.filteredItems[i]

		var display string
		if choice, ok := item.(*ChoiceItem); ok {
			display = choice.DisplayCompact(termWidth - 4)
		} else {
			display = truncateString(item.Display(), termWidth-4)
		}

		switch {
		case i == d.selectedIndex && item.Enabled():
			fmt.Fprintf(d.out, "\033[1;34m> %s\033[0m\r\n", display)
		case i == d.selectedIndex:
			fmt.Fprintf(d.out, "\033[2m> %s\033[0m\r\n", display)
		case !item.Enabled():
			fmt.Fprintf(d.out, "\033[2m  %s\033[0m\r\n", display)
		default:
			fmt.Fprintf(d.out, "  %s\r\n", display)
		}
	}

	if windowEnd < len(d.filteredItems) {
		if d.options.ShowCounts {
			fmt.Fprintf(d.out, "  ↓ %d more items below\r\n", len(d.filteredItems)-windowEnd)
		} else {
			fmt.Fprint(d.out, "  ↓ more items below\r\n")
		}
	}

	if d.searchText != "" {
		fmt.Fprintf(d.out, "\r\n[%d matches]", len(d.filteredItems))
	}

	fmt.Fprintf(d.out, "\r\n%s%s", d.options.SearchPrompt, d.searchText)
	fmt.Fprint(d.out, "\033[?25h")
}

func (d *Dropdown) restore() {
	if d.oldState != nil {
		fmt.Fprint(d.out, "\033[?25h\033[?1049l")
		term.Restore(d.fd, d.oldState)
	}
}
