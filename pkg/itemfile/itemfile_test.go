package itemfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/choices/pkg/itemvalue"
)

const sampleYAML = `locale: de
items:
  - a
  - value: b
    text:
      default: Bee
      de: Biene
    visibleIf: "{x} = 1"
  - 3
context:
  x: 1
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("x.YML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)
	f, err = FormatOf("x.json")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)
	_, err = FormatOf("x.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadYAMLIntoCollection(t *testing.T) {
	doc, err := Load(writeFile(t, "items.yaml", sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "de", doc.Locale)
	assert.Equal(t, map[string]any{"x": 1}, doc.Context)

	c := doc.Collection(nil)
	require.Equal(t, 3, c.Len())
	assert.Equal(t, "Bee", c.At(1).Text())
	assert.Equal(t, "{x} = 1", c.At(1).VisibleIf())
	assert.Equal(t, 3, c.At(2).Value())

	assert.True(t, c.RunConditions(nil, nil, map[string]any{"x": 2}, nil, true))
	assert.False(t, c.At(1).IsVisible())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "bad.json", "{"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "items.txt", "a"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEncodeKeepsFieldOrder(t *testing.T) {
	c := itemvalue.NewCollection(nil)
	c.SetData([]any{
		map[string]any{"visibleIf": "{x} = 1", "text": "Bee", "value": "b"},
		"a",
	})
	doc := FromCollection(c, "", map[string]any{"x": 1}, nil)

	var yamlBuf bytes.Buffer
	require.NoError(t, doc.Encode(&yamlBuf, YAML))
	out := yamlBuf.String()
	assert.Contains(t, out, "items:\n  - value: b\n    text: Bee\n    visibleIf: ")
	assert.Contains(t, out, "  - a\ncontext:\n  x: 1\n")

	var jsonBuf bytes.Buffer
	require.NoError(t, doc.Encode(&jsonBuf, JSON))
	assert.Contains(t, jsonBuf.String(), `"value": "b",`)
	assert.Less(t, bytes.Index(jsonBuf.Bytes(), []byte(`"value"`)), bytes.Index(jsonBuf.Bytes(), []byte(`"text"`)))
}

func TestSaveAndReload(t *testing.T) {
	doc, err := Parse([]byte(sampleYAML), YAML)
	require.NoError(t, err)
	c := doc.Collection(nil)

	for _, name := range []string{"out.json", "out.yaml"} {
		path := filepath.Join(t.TempDir(), "nested", name)
		require.NoError(t, FromCollection(c, doc.Locale, doc.Context, nil).Save(path))
		loaded, err := Load(path)
		require.NoError(t, err)
		again := loaded.Collection(nil)
		require.Equal(t, 3, again.Len(), name)
		assert.Equal(t, "b", again.At(1).Value())
		assert.Equal(t, []string{"de"}, again.UsedLocales())
	}
}

func TestCheckRoundTripIdentical(t *testing.T) {
	rt, err := CheckRoundTrip(writeFile(t, "items.yaml", sampleYAML))
	require.NoError(t, err)
	assert.True(t, rt.Identical(), rt.Diff)

	rt, err = CheckRoundTrip(writeFile(t, "items.json", `{"items": [1, 2.0, {"value": "c", "enableIf": "{n} > 1"}]}`))
	require.NoError(t, err)
	assert.True(t, rt.Identical(), rt.Diff)
}

func TestCheckRoundTripReportsDifferences(t *testing.T) {
	rt, err := CheckRoundTrip(writeFile(t, "items.yaml", "items:\n  - b|Bee\n  - value: c\n    text: c\n"))
	require.NoError(t, err)
	assert.False(t, rt.Identical())
	assert.Contains(t, rt.Diff, "- - b|Bee")
	assert.Contains(t, rt.Diff, "+ - value: b")
	assert.Contains(t, rt.Diff, "+ - c")
	assert.Positive(t, rt.Additions)
	assert.Positive(t, rt.Deletions)
}

func TestRoundTripCollection(t *testing.T) {
	c := itemvalue.NewCollection(nil)
	c.SetData([]any{5, "x|Ex", map[string]any{"value": "y", "visibleIf": "true"}})
	again := RoundTripCollection(c)
	assert.Equal(t, c.Len(), again.Len())
	assert.Equal(t, 5, again.At(0).Value())
	assert.Equal(t, "Ex", again.At(1).Text())
	assert.Equal(t, "true", again.At(2).VisibleIf())
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeFile(t, "items.yaml", "items: [a]\n")
	reloads := make(chan *Document, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, func(doc *Document, err error) {
		if err == nil {
			reloads <- doc
		}
	})
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(path, []byte("items: [a, b]\n"), 0644))
	select {
	case doc := <-reloads:
		assert.Len(t, doc.Items, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("no reload after write")
	}
}
