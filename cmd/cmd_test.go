package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/choices/pkg/itemvalue"
	"github.com/alantheprice/choices/pkg/utils"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "choices-cmd")
	if err != nil {
		panic(err)
	}
	utils.SetLogFile(filepath.Join(dir, "choices.log"))
	utils.GetLogger()
	code := m.Run()
	utils.GetLogger().Close()
	os.RemoveAll(dir)
	os.Exit(code)
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace([]string{})
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI with a config path that does not exist, so built-in
// defaults apply regardless of the machine's own config.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.json")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeItems(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

const cities = `items:
  - ny|New York
  - value: la
    text: Los Angeles
    visibleIf: "{region} = 'west'"
  - value: sf
    text:
      default: San Francisco
      de: San Franzisko
    enableIf: "{open} = true"
  - 1|One
context:
  region: east
`

func TestEvalPrintsFlags(t *testing.T) {
	path := writeItems(t, "cities.yaml", cities)

	out, err := run(t, "eval", path, "--enable")
	require.NoError(t, err)
	assert.Contains(t, out, "visible enabled   ny           New York")
	assert.Contains(t, out, "hidden  enabled   la           Los Angeles")
	assert.Contains(t, out, "visible disabled  sf           San Francisco")
}

func TestEvalJSONWithValues(t *testing.T) {
	path := writeItems(t, "cities.yaml", cities)

	out, err := run(t, "eval", path, "--values", "region=west", "--values", "open=true", "--enable", "--json")
	require.NoError(t, err)

	var res evalResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []any{"ny", "la", "sf", "1"}, res.Visible)
	assert.Equal(t, []any{"ny", "la", "sf", "1"}, res.Enabled)
	assert.False(t, res.VisibilityChanged)
	assert.False(t, res.EnablementChanged)
}

func TestEvalLocale(t *testing.T) {
	path := writeItems(t, "cities.yaml", cities)

	out, err := run(t, "eval", path, "--locale", "de-AT")
	require.NoError(t, err)
	assert.Contains(t, out, "San Franzisko")
}

func TestEvalRejectsBadValues(t *testing.T) {
	path := writeItems(t, "cities.yaml", cities)

	_, err := run(t, "eval", path, "--values", "novalue")
	require.Error(t, err)
	_, err = run(t, "eval", path, "--values-json", "{")
	require.Error(t, err)
}

func TestFind(t *testing.T) {
	path := writeItems(t, "cities.yaml", cities)

	out, err := run(t, "find", path, "la")
	require.NoError(t, err)
	assert.Equal(t, "la\tLos Angeles\n", out)

	out, err = run(t, "find", path, "1")
	require.NoError(t, err)
	assert.Equal(t, "1\tOne\n", out)

	_, err = run(t, "find", path, "zz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no item with value")
}

func TestParse(t *testing.T) {
	out, err := run(t, "parse", "a|Alpha")
	require.NoError(t, err)
	assert.Equal(t, "value: a\ntext: Alpha\ndata: {\"value\":\"a\",\"text\":\"Alpha\"}\n", out)

	out, err = run(t, "parse", "--separator", ":", "a:Alpha")
	require.NoError(t, err)
	assert.Contains(t, out, "text: Alpha")

	// The separator does not leak into the next run.
	out, err = run(t, "parse", "a:Alpha")
	require.NoError(t, err)
	assert.Equal(t, "value: a:Alpha\ndata: \"a:Alpha\"\n", out)

	_, err = run(t, "parse", "--separator", "::", "x")
	require.Error(t, err)
}

func TestRoundtrip(t *testing.T) {
	same := writeItems(t, "same.yaml", "items:\n  - a\n  - value: b\n    text: Bee\n")
	out, err := run(t, "roundtrip", same)
	require.NoError(t, err)
	assert.Contains(t, out, "identical")

	changed := writeItems(t, "changed.yaml", "items:\n  - value: c\n    text: c\n")
	out, err = run(t, "roundtrip", changed)
	require.ErrorIs(t, err, errRoundTripDiffers)
	assert.Contains(t, out, "+ - c")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"), []byte(`{"items":["a",{"value":"b","text":"Bee"}]}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0644))

	out, err := run(t, "check", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ok    "+filepath.Join(dir, "good.json"))
	assert.Contains(t, out, "1 files checked, 0 failed")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("items:\n  - value: x\n    text: x\n"), 0644))
	out, err = run(t, "check", dir)
	require.ErrorIs(t, err, errRoundTripDiffers)
	assert.Contains(t, out, "DIFF  "+filepath.Join(dir, "bad.yaml"))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "choices version dev")
}

func TestBuildValues(t *testing.T) {
	vals, err := buildValues(
		map[string]any{"a": 1, "b": "keep"},
		[]string{"a=2", "flag=true", "name=Ann", "empty=", "list=[1,2]"},
		`{"b":"json","c":3}`,
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a":     2,
		"b":     "json",
		"c":     float64(3),
		"flag":  true,
		"name":  "Ann",
		"empty": nil,
		"list":  "[1,2]",
	}, vals)
}

func TestAddIgnorePattern(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".choices", ".ignore")

	added, err := addIgnorePattern(file, "drafts/")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = addIgnorePattern(file, " drafts/ ")
	require.NoError(t, err)
	assert.False(t, added)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "drafts/\n", string(data))

	_, err = addIgnorePattern(file, "  ")
	assert.Error(t, err)
}

func TestDisplayLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.log")
	var out bytes.Buffer
	require.NoError(t, displayLog(&out, path, 2))
	assert.Contains(t, out.String(), "not found")

	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0644))
	out.Reset()
	require.NoError(t, displayLog(&out, path, 2))
	assert.Contains(t, out.String(), "two\nthree\n")
	assert.NotContains(t, out.String(), "one")
}

func TestPrintItemsCutsOnRuneBoundary(t *testing.T) {
	var buf bytes.Buffer
	printItems(&buf, []*itemvalue.Item{itemvalue.NewWithText("g", "Größenänderung")}, 34)
	assert.Equal(t, "visible enabled   g            Grö\n", buf.String())
	assert.True(t, utf8.ValidString(buf.String()))
}
