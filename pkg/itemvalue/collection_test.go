package itemvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/choices/pkg/serializer"
)

func valuesOf(items []*Item) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, it.Value())
	}
	return out
}

func plain(data []any) []any {
	out := make([]any, len(data))
	for i, d := range data {
		if rec, ok := d.(*serializer.Record); ok {
			out[i] = serializer.RecordToMap(rec)
			continue
		}
		out[i] = d
	}
	return out
}

func assertAllBound(t *testing.T, c *Collection) {
	t.Helper()
	for _, it := range c.Items() {
		assert.Same(t, c.Owner(), it.Owner(), "item %v unbound", it.Value())
	}
}

func TestMutationsBindOwner(t *testing.T) {
	owner := &recordingOwner{locale: "en"}
	c := NewCollection(owner)

	c.Append(New("b"))
	c.Prepend(New("a"))
	c.Append(New("d"), New("e"))
	c.Insert(2, New("c"))
	c.Splice(-1, 1, New("E"), New("f"))

	assert.Equal(t, []any{"a", "b", "c", "d", "E", "f"}, valuesOf(c.Items()))
	assertAllBound(t, c)
	assert.Equal(t, "en", c.At(0).Locale())
}

func TestSpliceSemantics(t *testing.T) {
	c := NewCollection(&recordingOwner{})
	c.SetData([]any{"a", "b", "c", "d"})

	removed := c.Splice(1, 2)
	assert.Equal(t, []any{"b", "c"}, valuesOf(removed))
	assert.Equal(t, []any{"a", "d"}, valuesOf(c.Items()))
	for _, it := range removed {
		assert.Nil(t, it.Owner())
	}

	removed = c.Splice(10, 5, New("z"))
	assert.Empty(t, removed)
	assert.Equal(t, []any{"a", "d", "z"}, valuesOf(c.Items()))

	removed = c.Splice(-10, 1)
	assert.Equal(t, []any{"a"}, valuesOf(removed))
	assert.Equal(t, []any{"d", "z"}, valuesOf(c.Items()))

	assert.Empty(t, c.Splice(0, -3))
	assertAllBound(t, c)
}

func TestMembershipIsByIdentity(t *testing.T) {
	c := NewCollection(nil)
	a := New("a")
	twin := New("a")
	c.Append(a, a, nil, twin)
	c.Prepend(a)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 0, c.IndexOf(a))
	assert.Equal(t, 1, c.IndexOf(twin))

	replaced := c.Splice(0, 1, a)
	assert.Equal(t, []*Item{a}, replaced)
	assert.Equal(t, 0, c.IndexOf(a))
}

func TestRemoveUnbindsOnlyOwnItems(t *testing.T) {
	owner := &recordingOwner{}
	other := &recordingOwner{}
	c := NewCollection(owner)
	a, b := New("a"), New("b")
	c.Append(a, b)

	b.SetOwner(other)
	assert.True(t, c.Remove(a))
	assert.False(t, c.Remove(a))
	assert.Nil(t, a.Owner())

	assert.Same(t, b, c.RemoveAt(0))
	assert.Same(t, other, b.Owner())
	assert.Nil(t, c.RemoveAt(3))
}

func TestSetOwnerRebindsItems(t *testing.T) {
	c := NewCollection(nil)
	c.SetData([]any{"a", "b"})
	owner := &recordingOwner{}
	c.SetOwner(owner)
	assertAllBound(t, c)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCollectionSetDataAndData(t *testing.T) {
	c := NewCollection(nil)
	c.SetData([]any{
		1,
		"b|Bee",
		map[string]any{"value": "c", "visibleIf": "{x} = 1", "originalItem": "source-c"},
		map[string]any{"value": nil},
	})
	require.Equal(t, 4, c.Len())
	assert.Equal(t, "source-c", c.At(2).OriginalItem)

	data := c.Data()
	assert.Equal(t, 1, data[0])
	assert.Equal(t, map[string]any{"value": "b", "text": "Bee"}, recordMap(t, data[1]))
	assert.Equal(t, map[string]any{"value": "c", "visibleIf": "{x} = 1"}, recordMap(t, data[2]))
	assert.Equal(t, map[string]any{}, recordMap(t, data[3]))

	again := NewCollection(nil)
	again.SetData(data)
	assert.Equal(t, plain(data), plain(again.Data()))
}

func TestCollectionPasses(t *testing.T) {
	c := NewCollection(&recordingOwner{})
	c.SetData([]any{
		"a",
		map[string]any{"value": "b", "visibleIf": "{x} = 1"},
		map[string]any{"value": "c", "enableIf": "{x} = 2"},
	})

	var visible []*Item
	assert.True(t, c.RunConditions(&visible, nil, map[string]any{"x": 2}, nil, true))
	assert.Equal(t, []any{"a", "c"}, valuesOf(visible))
	assert.Equal(t, []any{"a", "c"}, valuesOf(c.VisibleItems()))

	assert.False(t, c.RunEnabledConditions(nil, map[string]any{"x": 2}, nil, nil))
	assert.True(t, c.RunEnabledConditions(nil, map[string]any{"x": 1}, nil, nil))
	assert.False(t, c.At(2).IsEnabled())
}

func TestLocStrsChangedNotifiesSubscribers(t *testing.T) {
	c := NewCollection(&recordingOwner{})
	c.SetData([]any{"a", "b"})
	fired := 0
	for _, it := range c.Items() {
		it.LocText().Subscribe(func() { fired++ })
	}
	c.LocStrsChanged()
	assert.Equal(t, 2, fired)
}
