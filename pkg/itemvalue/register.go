package itemvalue

import "github.com/alantheprice/choices/pkg/serializer"

func init() {
	serializer.Default.AddClass(KindItemValue, []serializer.Property{
		serializer.ParseProperty("!value"),
		{Name: "text", SerializationProperty: LocText},
		{Name: "visibleIf", Type: "condition", ShowMode: "form"},
		{
			Name:     "enableIf",
			Type:     "condition",
			ShowMode: "form",
			Visible: func(obj any) bool {
				it, ok := obj.(*Item)
				return !ok || it == nil || it.OwnerPropertyName != RateValuesRole
			},
		},
	}, func() any { return newItem(KindItemValue) }, "")

	serializer.Default.AddClass(KindImageItemValue, []serializer.Property{
		{Name: "imageLink", SerializationProperty: LocImageLink},
	}, func() any { return newItem(KindImageItemValue) }, KindItemValue)
}

// RegisterKind registers a custom item kind deriving from parent (the plain
// item kind when empty). Properties with a SerializationProperty become
// localizable fields on every item of the kind.
func RegisterKind(name, parent string, props ...serializer.Property) {
	if parent == "" {
		parent = KindItemValue
	}
	serializer.Default.AddClass(name, props, func() any { return newItem(name) }, parent)
}

// EditorProperties lists the properties an editor should offer for it.
func (it *Item) EditorProperties() []serializer.Property {
	return serializer.Default.VisibleProperties(it.serializable().Kind(), it)
}
