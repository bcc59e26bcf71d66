package itemvalue

// Collection is an ordered set of items bound to one owner. Every insertion
// path binds the inserted items to the owner before returning; membership is
// by identity, so an item already present is not inserted twice.
type Collection struct {
	owner Owner
	items []*Item
}

// NewCollection returns an empty collection bound to owner.
func NewCollection(owner Owner) *Collection {
	return &Collection{owner: owner}
}

// Owner returns the owning context.
func (c *Collection) Owner() Owner { return c.owner }

// SetOwner rebinds the collection and all its items.
func (c *Collection) SetOwner(owner Owner) {
	c.owner = owner
	for _, it := range c.items {
		it.SetOwner(owner)
	}
}

// Len returns the number of items.
func (c *Collection) Len() int { return len(c.items) }

// At returns the item at index i.
func (c *Collection) At(i int) *Item { return c.items[i] }

// Items returns a copy of the items in order.
func (c *Collection) Items() []*Item {
	return append([]*Item(nil), c.items...)
}

// IndexOf returns the position of it, or -1.
func (c *Collection) IndexOf(it *Item) int {
	for i, x := range c.items {
		if x == it {
			return i
		}
	}
	return -1
}

// Append adds items at the end.
func (c *Collection) Append(items ...*Item) {
	c.Splice(len(c.items), 0, items...)
}

// Prepend adds items at the front, keeping their relative order.
func (c *Collection) Prepend(items ...*Item) {
	c.Splice(0, 0, items...)
}

// Insert adds items before index.
func (c *Collection) Insert(index int, items ...*Item) {
	c.Splice(index, 0, items...)
}

// Splice removes deleteCount items starting at start, inserts items in their
// place and returns the removed items. A negative start counts from the end;
// out-of-range arguments are clamped.
func (c *Collection) Splice(start, deleteCount int, items ...*Item) []*Item {
	n := len(c.items)
	if start < 0 {
		start = max(n+start, 0)
	}
	start = min(start, n)
	deleteCount = min(max(deleteCount, 0), n-start)

	removed := append([]*Item(nil), c.items[start:start+deleteCount]...)
	tail := append([]*Item(nil), c.items[start+deleteCount:]...)
	c.items = c.items[:start]

	inserted := make([]*Item, 0, len(items))
	for _, it := range items {
		if it == nil || c.contains(it, tail) || containsItem(inserted, it) {
			continue
		}
		inserted = append(inserted, it)
	}
	c.items = append(append(c.items, inserted...), tail...)

	for _, it := range inserted {
		it.SetOwner(c.owner)
	}
	for _, it := range removed {
		if !containsItem(c.items, it) {
			c.unbind(it)
		}
	}
	return removed
}

// Remove deletes it and reports whether it was present.
func (c *Collection) Remove(it *Item) bool {
	i := c.IndexOf(it)
	if i < 0 {
		return false
	}
	c.Splice(i, 1)
	return true
}

// RemoveAt deletes and returns the item at index i.
func (c *Collection) RemoveAt(i int) *Item {
	if i < 0 || i >= len(c.items) {
		return nil
	}
	return c.Splice(i, 1)[0]
}

// Clear removes every item.
func (c *Collection) Clear() {
	c.Splice(0, len(c.items))
}

// SetData replaces the contents with items built from sources. Each source
// may be a literal, a record or a Describable; Describable sources keep their
// kind. OriginalItem is carried over from item sources and from records
// carrying an "originalItem" key.
func (c *Collection) SetData(sources []any) {
	c.Clear()
	for _, src := range sources {
		it := FromLiteralOrRecord(src)
		if m, ok := src.(map[string]any); ok && m["originalItem"] != nil {
			it.OriginalItem = m["originalItem"]
		}
		c.Append(it)
	}
}

// Data returns the compact form of every item, in order.
func (c *Collection) Data() []any {
	out := make([]any, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it.Data())
	}
	return out
}

// FindByValue is FindByValue over the collection.
func (c *Collection) FindByValue(val any) *Item { return FindByValue(c.items, val) }

// DisplayText is DisplayTextForValue over the collection.
func (c *Collection) DisplayText(val any) string { return DisplayTextForValue(c.items, val) }

// RunConditions runs the visibility pass over the collection.
func (c *Collection) RunConditions(filtered *[]*Item, runner ConditionRunner, vals, properties map[string]any, useItemExpression bool) bool {
	return RunConditions(c.items, filtered, runner, vals, properties, useItemExpression)
}

// RunEnabledConditions runs the enablement pass over the collection.
func (c *Collection) RunEnabledConditions(runner ConditionRunner, vals, properties map[string]any, gate func(*Item) bool) bool {
	return RunEnabledConditions(c.items, runner, vals, properties, gate)
}

// VisibleItems returns the items whose cached visibility flag is set.
func (c *Collection) VisibleItems() []*Item {
	var out []*Item
	for _, it := range c.items {
		if it.IsVisible() {
			out = append(out, it)
		}
	}
	return out
}

// LocStrsChanged refreshes the localizable texts of every item.
func (c *Collection) LocStrsChanged() {
	for _, it := range c.items {
		it.LocStrsChanged()
	}
}

// UsedLocales returns the explicit locales used by any item.
func (c *Collection) UsedLocales() []string {
	var locales []string
	for _, it := range c.items {
		locales = it.AddUsedLocales(locales)
	}
	return locales
}

func (c *Collection) contains(it *Item, tail []*Item) bool {
	return containsItem(c.items, it) || containsItem(tail, it)
}

func (c *Collection) unbind(it *Item) {
	if it.owner != nil && it.owner == c.owner {
		it.SetOwner(nil)
	}
}

func containsItem(list []*Item, it *Item) bool {
	for _, x := range list {
		if x == it {
			return true
		}
	}
	return false
}
