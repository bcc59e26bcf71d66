package itemvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/choices/pkg/serializer"
	"github.com/alantheprice/choices/pkg/settings"
)

type change struct {
	name     string
	old, new any
}

type recordingOwner struct {
	locale  string
	changes []change
}

func (o *recordingOwner) Locale() string { return o.locale }

func (o *recordingOwner) ItemValuePropertyChanged(_ *Item, name string, oldValue, newValue any) {
	o.changes = append(o.changes, change{name, oldValue, newValue})
}

func (o *recordingOwner) names() []string {
	var out []string
	for _, c := range o.changes {
		out = append(out, c.name)
	}
	return out
}

func recordMap(t *testing.T, v any) map[string]any {
	t.Helper()
	rec, ok := v.(*serializer.Record)
	require.True(t, ok, "expected a record, got %T", v)
	return serializer.RecordToMap(rec)
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		value   any
		text    string
		hasText bool
	}{
		{"value and text", "a|b", "a", "b", true},
		{"first separator wins", "a|b|c", "a", "b|c", true},
		{"leading separator", "|x", "", "x", true},
		{"trailing separator", "a|", "a", "", true},
		{"no separator", "abc", "abc", "", false},
		{"empty", "", "", "", false},
		{"nil", nil, nil, "", false},
		{"number keeps type", 5, 5, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, text, hasText := ParseLiteral(tt.raw)
			assert.Equal(t, tt.value, value)
			assert.Equal(t, tt.text, text)
			assert.Equal(t, tt.hasText, hasText)
		})
	}

	structured := map[string]any{"id": "a|b"}
	value, _, hasText := ParseLiteral(structured)
	assert.Equal(t, structured, value)
	assert.False(t, hasText)
}

func TestParseLiteralCustomSeparator(t *testing.T) {
	t.Cleanup(settings.Reset)
	require.NoError(t, settings.SetItemValueSeparator(";"))

	value, text, _ := ParseLiteral("a;Apple")
	assert.Equal(t, "a", value)
	assert.Equal(t, "Apple", text)

	it := New("b|c")
	assert.Equal(t, "b|c", it.Value())
	assert.False(t, it.HasText())
}

func TestNewFromLiteral(t *testing.T) {
	it := New("a|Apple")
	assert.Equal(t, "a", it.Value())
	assert.Equal(t, "Apple", it.Text())
	assert.Equal(t, KindItemValue, it.Kind())
	assert.NotEmpty(t, it.ID())
	assert.True(t, it.IsVisible())
	assert.True(t, it.IsEnabled())

	assert.Equal(t, map[string]any{"value": "a", "text": "Apple"}, recordMap(t, it.Data()))
}

func TestTextFallsBackToValue(t *testing.T) {
	it := New(3)
	assert.Equal(t, "3", it.Text())
	assert.Equal(t, "", it.PureText())
	assert.False(t, it.HasText())

	it.SetText("Three")
	assert.Equal(t, "Three", it.Text())
	assert.Equal(t, "", New(nil).Text())
}

func TestDataCollapsesToBareValue(t *testing.T) {
	for _, v := range []any{5, "x", true, 2.5} {
		it := New(v)
		data := it.Data()
		assert.Equal(t, v, data)
		assert.Equal(t, v, FromLiteralOrRecord(data).Value())
	}

	same := NewWithText("x", "x")
	assert.Equal(t, "x", same.Data())

	withCond := New("y")
	withCond.SetVisibleIf("{a} = 1")
	assert.Equal(t, map[string]any{"value": "y", "visibleIf": "{a} = 1"}, recordMap(t, withCond.Data()))
}

func TestDataStripsPos(t *testing.T) {
	it := FromLiteralOrRecord(map[string]any{"value": map[string]any{"id": 1, "pos": 3}})
	assert.Equal(t, map[string]any{"id": 1}, it.Data())
	assert.Equal(t, map[string]any{"id": 1, "pos": 3}, it.Value())
}

func TestFromLiteralOrRecord(t *testing.T) {
	it := FromLiteralOrRecord(map[string]any{
		"value":     1,
		"text":      "One",
		"visibleIf": "{a} = 1",
		"enableIf":  "{b} = 2",
		"ignored":   true,
	})
	assert.Equal(t, 1, it.Value())
	assert.Equal(t, "One", it.Text())
	assert.Equal(t, "{a} = 1", it.VisibleIf())
	assert.Equal(t, "{b} = 2", it.EnableIf())
	assert.Nil(t, it.PropertyValue("ignored"))

	notRecord := map[string]any{"id": 7}
	assert.Equal(t, notRecord, FromLiteralOrRecord(notRecord).Value())

	literal := FromLiteralOrRecord("k|Key")
	assert.Equal(t, "k", literal.Value())
	assert.Equal(t, "Key", literal.Text())

	split := FromLiteralOrRecord(map[string]any{"value": "v|From value"})
	assert.Equal(t, "v", split.Value())
	assert.Equal(t, "From value", split.Text())
}

func TestSetDataFromItemCopiesFields(t *testing.T) {
	src := NewWithText("a", "Apple")
	src.SetEnableIf("{n} > 1")
	src.OriginalItem = "origin"

	dst := FromLiteralOrRecord(src)
	assert.NotEqual(t, src.ID(), dst.ID())
	assert.Equal(t, "a", dst.Value())
	assert.Equal(t, "Apple", dst.Text())
	assert.Equal(t, "{n} > 1", dst.EnableIf())
	assert.Equal(t, "origin", dst.OriginalItem)
}

func TestLocalizedText(t *testing.T) {
	owner := &recordingOwner{locale: "de"}
	c := NewCollection(owner)
	c.SetData([]any{map[string]any{"value": "y", "text": map[string]any{"default": "Yes", "de": "Ja"}}})

	it := c.At(0)
	assert.Equal(t, "Ja", it.Text())
	owner.locale = "de-AT"
	assert.Equal(t, "Ja", it.Text())
	owner.locale = "fr"
	assert.Equal(t, "Yes", it.Text())
	assert.Equal(t, []string{"de"}, c.UsedLocales())

	assert.Equal(t, map[string]any{"default": "Yes", "de": "Ja"}, recordMap(t, it.Data())["text"])
}

func TestOwnerReceivesPropertyChanges(t *testing.T) {
	owner := &recordingOwner{}
	c := NewCollection(owner)
	it := New("a")
	c.Append(it)

	it.SetValue("b")
	it.SetText("Bee")
	it.SetVisibleIf("{x} = 1")
	it.SetEnableIf("{y} = 1")
	it.SetIsEnabled(false)
	it.SetIsEnabled(false)
	assert.Equal(t, []string{"value", "text", "visibleIf", "enableIf", "isEnabled"}, owner.names())
	assert.Equal(t, change{"value", "a", "b"}, owner.changes[0])

	owner.changes = nil
	it.SetText("b")
	require.Len(t, owner.changes, 1)
	assert.Equal(t, "text", owner.changes[0].name)
	assert.Nil(t, owner.changes[0].new)
	assert.NotContains(t, recordMap(t, it.Data()), "text")
}

func TestConditionRunnerCaching(t *testing.T) {
	it := New("a")
	assert.Nil(t, it.ConditionRunner(true))
	assert.Nil(t, it.ConditionRunner(false))

	it.SetVisibleIf("{x} = 1")
	first := it.ConditionRunner(true)
	require.NotNil(t, first)
	assert.Same(t, first, it.ConditionRunner(true))

	it.SetVisibleIf("{x} = 2")
	second := it.ConditionRunner(true)
	assert.NotSame(t, first, second)
	assert.Equal(t, "{x} = 2", second.Expression())
	assert.Nil(t, it.ConditionRunner(false))
}

func TestSetCompiler(t *testing.T) {
	compiled := 0
	prev := SetCompiler(func(text string) (ConditionRunner, error) {
		compiled++
		return compileExpression(text)
	})
	t.Cleanup(func() { SetCompiler(prev) })

	it := New("a")
	it.SetVisibleIf("{x} = 1")
	it.ConditionRunner(true)
	it.ConditionRunner(true)
	assert.Equal(t, 1, compiled)
}

func TestImageItem(t *testing.T) {
	img := NewImage("cat", "cat.png")
	assert.Equal(t, KindImageItemValue, img.Kind())
	assert.Equal(t, "cat.png", img.ImageLink())
	assert.Equal(t, map[string]any{"value": "cat", "imageLink": "cat.png"}, recordMap(t, img.Data()))

	c := NewCollection(nil)
	c.SetData([]any{img, "dog"})
	assert.Equal(t, KindImageItemValue, c.At(0).Kind())
	assert.Equal(t, "cat.png", c.At(0).ImageLink())
	assert.Equal(t, KindItemValue, c.At(1).Kind())
	assert.Equal(t, "", c.At(1).ImageLink())

	created, err := CreateItem(map[string]any{"value": "owl", "imageLink": "owl.png"}, KindImageItemValue)
	require.NoError(t, err)
	assert.Equal(t, "owl.png", created.ImageLink())

	_, err = CreateItem("x", "nosuchkind")
	assert.ErrorIs(t, err, serializer.ErrUnknownKind)
}

func TestEditorPropertiesHideEnableIfForRateValues(t *testing.T) {
	it := New(1)
	names := func() []string {
		var out []string
		for _, p := range it.EditorProperties() {
			out = append(out, p.Name)
		}
		return out
	}
	assert.Contains(t, names(), "enableIf")
	it.OwnerPropertyName = RateValuesRole
	assert.NotContains(t, names(), "enableIf")
	assert.Contains(t, names(), "visibleIf")
}

func TestRegisterKind(t *testing.T) {
	RegisterKind("badgeitem", "", serializer.Property{Name: "badge", SerializationProperty: "locBadge"}, serializer.Property{Name: "weight", Default: 1})

	it, err := CreateItem(map[string]any{"value": "a", "badge": "New", "weight": 3}, "badgeitem")
	require.NoError(t, err)
	assert.Equal(t, "New", it.PropertyValue("badge"))
	assert.Equal(t, 3, it.PropertyValue("weight"))
	assert.Equal(t, map[string]any{"value": "a", "badge": "New", "weight": 3}, recordMap(t, it.Data()))
}
