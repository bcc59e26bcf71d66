package itemfile

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"

	"github.com/alantheprice/choices/pkg/itemvalue"
)

// RoundTrip is the result of loading items and serializing them again.
type RoundTrip struct {
	Path      string
	Original  string
	Rewritten string
	Additions int
	Deletions int
	Diff      string
}

// Identical reports whether the items survived unchanged.
func (r *RoundTrip) Identical() bool { return r.Original == r.Rewritten }

// CheckRoundTrip loads the items of path into a collection, serializes them
// back and compares both forms as canonical YAML, ignoring formatting.
func CheckRoundTrip(path string) (*RoundTrip, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	original, err := canonicalItems(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c := doc.Collection(nil)
	node, err := toNode(c.Data())
	if err != nil {
		return nil, err
	}
	rewritten, err := encodeCanonical(node)
	if err != nil {
		return nil, err
	}

	rt := &RoundTrip{Path: path, Original: original, Rewritten: rewritten}
	if !rt.Identical() {
		rt.Diff, rt.Additions, rt.Deletions = lineDiff(original, rewritten)
	}
	return rt, nil
}

// RoundTripCollection serializes c and reads it back, returning the rebuilt
// collection.
func RoundTripCollection(c *itemvalue.Collection) *itemvalue.Collection {
	out := itemvalue.NewCollection(c.Owner())
	out.SetData(c.Data())
	return out
}

// canonicalItems extracts the "items" node of a JSON or YAML document and
// re-encodes it with all styling removed.
func canonicalItems(data []byte) (string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return "", err
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	items := &yaml.Node{Kind: yaml.SequenceNode}
	if doc.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(doc.Content); i += 2 {
			if doc.Content[i].Value == "items" {
				items = doc.Content[i+1]
				break
			}
		}
	}
	return encodeCanonical(items)
}

func encodeCanonical(n *yaml.Node) (string, error) {
	stripStyle(n)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func stripStyle(n *yaml.Node) {
	n.Style = 0
	n.HeadComment, n.LineComment, n.FootComment = "", "", ""
	if n.Kind == yaml.ScalarNode && n.Tag == "!!float" {
		// JSON numbers decode to float64; 1, 1.0 and 1e0 all read back as 1.
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			n.Value = strconv.FormatInt(int64(f), 10)
			n.Tag = "!!int"
		}
	}
	for _, c := range n.Content {
		stripStyle(c)
	}
}

// lineDiff renders a line-oriented diff and counts changed characters.
func lineDiff(original, rewritten string) (string, int, int) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(original, rewritten)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var out strings.Builder
	additions, deletions := 0, 0
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
			additions += len(d.Text)
		case diffmatchpatch.DiffDelete:
			prefix = "- "
			deletions += len(d.Text)
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}
	return out.String(), additions, deletions
}
