package types

import "slices"

// ItemType selects which value field of a SheetItem is meaningful.
type ItemType string

// Item types.
const (
	ItemTypeNumeric ItemType = "numeric"
	ItemTypeString  ItemType = "string"
	ItemTypeFormula ItemType = "formula"
)

// validItemTypes is the set of recognized item types.
var validItemTypes = map[ItemType]bool{
	ItemTypeNumeric: true,
	ItemTypeString:  true,
	ItemTypeFormula: true,
}

// ItemTypes lists the item types in display order.
var ItemTypes = []ItemType{ItemTypeNumeric, ItemTypeString, ItemTypeFormula}

// ParseItemType converts s to an ItemType.
// Returns ErrInvalidItemType if s is not a recognized type.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !validItemTypes[t] {
		return "", ErrInvalidItemType
	}
	return t, nil
}

// Fraction digit bounds. FractionDigitsAuto lets the formatter decide.
const (
	FractionDigitsAuto = -1
	FractionDigitsMax  = 5
)

// ClampFractionDigits maps any negative value to FractionDigitsAuto and caps
// positive values at FractionDigitsMax.
func ClampFractionDigits(n int) int {
	switch {
	case n < 0:
		return FractionDigitsAuto
	case n > FractionDigitsMax:
		return FractionDigitsMax
	default:
		return n
	}
}

// SheetItem is a named cell of a sheet. Only the value field selected by Type
// is meaningful; the others keep whatever was last written to them.
type SheetItem struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Type              ItemType `json:"type"`
	NumberValue       float64  `json:"number_value"`
	StringValue       string   `json:"string_value"`
	Formula           string   `json:"formula"`
	ThousandSeparator bool     `json:"thousand_separator"`
	FractionDigits    int      `json:"fraction_digits"`
	Visible           bool     `json:"visible"`
}

// NewSheetItem returns an item with the given id and name and default
// display options: numeric, automatic fraction digits, visible.
func NewSheetItem(id, name string) SheetItem {
	return SheetItem{
		ID:             id,
		Name:           name,
		Type:           ItemTypeNumeric,
		FractionDigits: FractionDigitsAuto,
		Visible:        true,
	}
}

// Sheet is a point-in-time snapshot of a sheet and its items in order.
type Sheet struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Items []SheetItem `json:"items"`
}

// Clone returns a deep copy so the snapshot can be handed out safely.
func (s Sheet) Clone() Sheet {
	s.Items = slices.Clone(s.Items)
	return s
}

// Equal reports whether two snapshots hold the same field values.
func (s Sheet) Equal(o Sheet) bool {
	return s.ID == o.ID && s.Name == o.Name && slices.Equal(s.Items, o.Items)
}

// ItemIndex returns the position of the item with the given id, or -1.
func (s Sheet) ItemIndex(id string) int {
	return slices.IndexFunc(s.Items, func(it SheetItem) bool { return it.ID == id })
}

// HasItemNamed reports whether any item of the sheet is called name.
func (s Sheet) HasItemNamed(name string) bool {
	return slices.ContainsFunc(s.Items, func(it SheetItem) bool { return it.Name == name })
}

// VisibleItems returns the items whose Visible flag is set, in order.
func (s Sheet) VisibleItems() []SheetItem {
	var out []SheetItem
	for _, it := range s.Items {
		if it.Visible {
			out = append(out, it)
		}
	}
	return out
}
