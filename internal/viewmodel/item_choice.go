package viewmodel

import (
	"github.com/mesh-intelligence/formulacalc/internal/stream"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// ItemTypeChoice is one selectable item type.
type ItemTypeChoice struct {
	Type    types.ItemType
	Name    string
	Checked stream.Observable[bool]
}

// ItemTypeViewModel lets the user pick an item's type.
type ItemTypeViewModel struct {
	src ItemSource
	loc *Localizer
}

// NewItemTypeViewModel creates the type chooser for the item behind src.
func NewItemTypeViewModel(src ItemSource, loc *Localizer) *ItemTypeViewModel {
	return &ItemTypeViewModel{src: src, loc: loc}
}

// Choices returns one entry per item type in display order.
func (vm *ItemTypeViewModel) Choices() []ItemTypeChoice {
	current := itemField(vm.src, types.ItemType(""), func(it types.SheetItem) types.ItemType { return it.Type })
	choices := make([]ItemTypeChoice, len(types.ItemTypes))
	for i, t := range types.ItemTypes {
		t := t
		choices[i] = ItemTypeChoice{
			Type:    t,
			Name:    vm.loc.ItemType(t),
			Checked: stream.Distinct(stream.Map(current, func(c types.ItemType) bool { return c == t })),
		}
	}
	return choices
}

// OnSelect changes the item type to the choice.
func (vm *ItemTypeViewModel) OnSelect() stream.Sink[ItemTypeChoice] {
	return stream.MapSink(vm.src.OnUpdateType(), func(c ItemTypeChoice) types.ItemType { return c.Type })
}

// FractionDigitsChoice is one selectable number of fraction digits.
type FractionDigitsChoice struct {
	Digits  int
	Name    string
	Checked stream.Observable[bool]
}

// ItemFormatViewModel edits the display options of a numeric item.
type ItemFormatViewModel struct {
	src ItemSource
	loc *Localizer
}

// NewItemFormatViewModel creates the format options for the item behind src.
func NewItemFormatViewModel(src ItemSource, loc *Localizer) *ItemFormatViewModel {
	return &ItemFormatViewModel{src: src, loc: loc}
}

// ThousandSeparator emits whether digits are grouped.
func (vm *ItemFormatViewModel) ThousandSeparator() stream.Observable[bool] {
	return itemField(vm.src, false, func(it types.SheetItem) bool { return it.ThousandSeparator })
}

// OnChangeThousandSeparator turns digit grouping on or off.
func (vm *ItemFormatViewModel) OnChangeThousandSeparator() stream.Sink[bool] {
	return vm.src.OnUpdateThousandSeparator()
}

// FractionDigitsChoices returns Auto followed by 0 through
// types.FractionDigitsMax.
func (vm *ItemFormatViewModel) FractionDigitsChoices() []FractionDigitsChoice {
	current := itemField(vm.src, types.FractionDigitsAuto-1, func(it types.SheetItem) int { return it.FractionDigits })
	var choices []FractionDigitsChoice
	for d := types.FractionDigitsAuto; d <= types.FractionDigitsMax; d++ {
		d := d
		choices = append(choices, FractionDigitsChoice{
			Digits:  d,
			Name:    vm.loc.FractionDigits(d),
			Checked: stream.Distinct(stream.Map(current, func(c int) bool { return c == d })),
		})
	}
	return choices
}

// OnSelectFractionDigits stores the chosen number of fraction digits.
func (vm *ItemFormatViewModel) OnSelectFractionDigits() stream.Sink[FractionDigitsChoice] {
	return stream.MapSink(vm.src.OnUpdateFractionDigits(), func(c FractionDigitsChoice) int { return c.Digits })
}
