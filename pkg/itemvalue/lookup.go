package itemvalue

import "github.com/alantheprice/choices/pkg/values"

// FindByValue returns the first item whose value equals val, or nil. Two
// empty values match each other; otherwise comparison is permissive, so 1
// matches "1". items may be a []*Item or a *Collection; anything else yields
// nil.
func FindByValue(items any, val any) *Item {
	var list []*Item
	switch s := items.(type) {
	case []*Item:
		list = s
	case *Collection:
		if s == nil {
			return nil
		}
		list = s.items
	default:
		return nil
	}
	valIsEmpty := values.IsEmpty(val)
	for _, it := range list {
		if it == nil {
			continue
		}
		if valIsEmpty && values.IsEmpty(it.Value()) {
			return it
		}
		if values.Equal(it.Value(), val) {
			return it
		}
	}
	return nil
}

// DisplayTextForValue returns the display text of the item holding val, or
// "" when none does.
func DisplayTextForValue(items any, val any) string {
	if it := FindByValue(items, val); it != nil {
		return it.Text()
	}
	return ""
}
