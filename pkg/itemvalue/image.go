package itemvalue

const (
	// KindImageItemValue is an item with an image link.
	KindImageItemValue = "imageitemvalue"
	// LocImageLink is the serialization name of the image link.
	LocImageLink = "locImageLink"
)

// NewImage returns an image item holding value.
func NewImage(value any, imageLink string) *Item {
	it := newItem(KindImageItemValue)
	it.SetData(value)
	if imageLink != "" {
		it.SetImageLink(imageLink)
	}
	return it
}

// ImageLink returns the image link for the current locale, or "" for items
// without one.
func (it *Item) ImageLink() string {
	if s, ok := it.localizables[LocImageLink]; ok {
		return s.Text()
	}
	return ""
}

// SetImageLink sets the image link for the current locale. It is a no-op for
// kinds that do not carry an image link.
func (it *Item) SetImageLink(link string) {
	if s, ok := it.localizables[LocImageLink]; ok {
		s.SetText(link)
	}
}
