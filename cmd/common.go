package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/alantheprice/choices/pkg/itemfile"
	"github.com/alantheprice/choices/pkg/itemvalue"
	"github.com/alantheprice/choices/pkg/locale"
	"github.com/alantheprice/choices/pkg/ui"
	"github.com/alantheprice/choices/pkg/values"
)

// loadItems reads an item file into a collection owned by the output locale.
func loadItems(path string) (*itemfile.Document, *itemvalue.Collection, error) {
	doc, err := itemfile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return doc, doc.Collection(locale.Fixed(outputLocale(doc.Locale))), nil
}

// parseScalar types a command-line value the way YAML would: numbers,
// booleans and null are recognized, everything else stays a string.
func parseScalar(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	switch v.(type) {
	case map[string]any, []any:
		return s
	}
	return v
}

// buildValues layers the document context, --values-json and k=v pairs, in
// that order.
func buildValues(base map[string]any, pairs []string, rawJSON string) (map[string]any, error) {
	vals := make(map[string]any, len(base)+len(pairs))
	for k, v := range base {
		vals[k] = v
	}
	if rawJSON != "" {
		var extra map[string]any
		if err := json.Unmarshal([]byte(rawJSON), &extra); err != nil {
			return nil, errorf("invalid --values-json: %v", err)
		}
		for k, v := range extra {
			vals[k] = v
		}
	}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, errorf("invalid value %q, expected name=value", pair)
		}
		vals[k] = parseScalar(v)
	}
	return vals, nil
}

// termWidth returns the width of stdout, or 80 when it is not a terminal.
func termWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func either(on bool, yes, no string) string {
	if on {
		return yes
	}
	return no
}

// printItems writes one line per item: visibility, enablement, value, label.
func printItems(out io.Writer, items []*itemvalue.Item, width int) {
	for _, it := range items {
		line := fmt.Sprintf("%s %s  %-12s %s",
			either(it.IsVisible(), "visible", "hidden "),
			either(it.IsEnabled(), "enabled ", "disabled"),
			values.ToString(it.Value()),
			it.Text())
		if width > 0 && ui.DisplayWidth(line) > width {
			line = ui.CutWidth(line, width)
		}
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}
}
