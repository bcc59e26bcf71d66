package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/alantheprice/choices/pkg/settings"
)

type switchable struct{ loc string }

func (s *switchable) Locale() string { return s.loc }

func TestTextFallsBackToParentAndDefault(t *testing.T) {
	owner := &switchable{}
	s := New(owner)
	s.SetText("Yes")
	owner.loc = "de"
	s.SetText("Ja")

	owner.loc = "de-CH"
	assert.Equal(t, "Ja", s.Text())
	owner.loc = "fr"
	assert.Equal(t, "Yes", s.Text())
	owner.loc = ""
	assert.Equal(t, "Yes", s.Text())
	assert.Equal(t, []string{"de"}, s.Locales())
}

func TestDefaultLocaleStoredUnderDefaultKey(t *testing.T) {
	t.Cleanup(settings.Reset)
	s := New(Fixed("en"))
	s.SetText("Yes")
	assert.Equal(t, "Yes", s.JSON())
	assert.Empty(t, s.Locales())
}

func TestJSONRoundTrip(t *testing.T) {
	s := New(nil)
	s.SetJSON(map[string]any{"fr": "Oui", "default": "Yes", "de": "Ja"})
	rec, ok := s.JSON().(*orderedmap.OrderedMap[string, any])
	require.True(t, ok)
	var keys []string
	for pair := rec.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"default", "de", "fr"}, keys)

	copied := New(nil)
	copied.SetJSON(rec)
	assert.Equal(t, "Yes", copied.Text())
	assert.Equal(t, []string{"de", "fr"}, copied.Locales())

	s.SetJSON(nil)
	assert.Nil(t, s.JSON())
	assert.True(t, s.IsEmpty())
}

func TestCalculatedTextAndChangeHooks(t *testing.T) {
	s := New(nil)
	s.SetTextCallback(func(text string) string {
		if text == "" {
			return "fallback"
		}
		return text
	})
	var changes [][2]string
	fired := 0
	s.OnTextChanged(func(o, n string) { changes = append(changes, [2]string{o, n}) })
	s.Subscribe(func() { fired++ })

	assert.Equal(t, "fallback", s.CalculatedText())
	s.SetText("A")
	s.SetText("A")
	s.SetText("")
	require.Len(t, changes, 2)
	assert.Equal(t, [2]string{"", "A"}, changes[0])
	assert.Equal(t, [2]string{"A", ""}, changes[1])
	assert.Equal(t, 2, fired)
	assert.Equal(t, "fallback", s.CalculatedText())
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "de-CH", Canonical("de-ch"))
	assert.Equal(t, "not a tag", Canonical("Not A Tag"))
}

func TestChildDefaultLocaleStillFallsBackToParent(t *testing.T) {
	t.Cleanup(settings.Reset)
	settings.SetDefaultLocale("de-AT")

	s := New(Fixed("de-AT"))
	s.SetJSON(map[string]any{"default": "San Francisco", "de": "San Franzisko"})
	assert.Equal(t, "San Franzisko", s.Text())

	s.SetJSON(map[string]any{"default": "San Francisco", "fr": "Saint-François"})
	assert.Equal(t, "San Francisco", s.Text())

	assert.Equal(t, []string{"de", DefaultKey}, fallbackChain("de-AT"))
}

func TestSetJSONNotifiesSubscribers(t *testing.T) {
	s := New(nil)
	fired := 0
	s.Subscribe(func() { fired++ })

	s.SetJSON("Yes")
	assert.Equal(t, 1, fired)
	s.SetJSON(map[string]any{"default": "Yes"})
	assert.Equal(t, 1, fired, "unchanged text does not notify")
	s.SetJSON(nil)
	assert.Equal(t, 2, fired)
}
