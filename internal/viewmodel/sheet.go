package viewmodel

import (
	"github.com/mesh-intelligence/formulacalc/internal/stream"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// SheetElement is one visible item of a sheet with its formatted value.
type SheetElement struct {
	ID    string
	Name  string
	Value string
}

// SheetViewModel drives the sheet screen. At most one item's value is in
// edit mode at a time.
type SheetViewModel struct {
	navigator
	src     SheetSource
	loc     *Localizer
	editing *stream.Subject[string]
}

// NewSheetViewModel creates the view model for the sheet behind src.
func NewSheetViewModel(src SheetSource, loc *Localizer) *SheetViewModel {
	return &SheetViewModel{navigator: newNavigator(), src: src, loc: loc, editing: stream.NewSubject("")}
}

// Title emits the sheet name, "" once the sheet is gone.
func (vm *SheetViewModel) Title() stream.Observable[string] {
	return sheetTitle(vm.src)
}

// ItemList emits the visible items.
func (vm *SheetViewModel) ItemList() stream.Observable[[]SheetElement] {
	return stream.Map(vm.src.ItemListUpdates(), func(c types.ItemListChange) []SheetElement {
		out := []SheetElement{}
		for _, it := range c.List {
			if !it.Visible {
				continue
			}
			out = append(out, SheetElement{ID: it.ID, Name: it.Name, Value: vm.loc.Value(it)})
		}
		return out
	})
}

// EditingItem emits the id of the item whose value is being edited, "" when
// none is.
func (vm *SheetViewModel) EditingItem() stream.Observable[string] {
	return stream.Distinct[string](vm.editing)
}

// OnTapValue puts the tapped item's value in edit mode.
func (vm *SheetViewModel) OnTapValue() stream.Sink[string] {
	return vm.editing.Publish
}

// OnEndEditing leaves edit mode.
func (vm *SheetViewModel) OnEndEditing() stream.Sink[stream.Unit] {
	return func(stream.Unit) { vm.editing.Publish("") }
}

// OnTapDesign switches to the design screen of this sheet.
func (vm *SheetViewModel) OnTapDesign() stream.Sink[stream.Unit] {
	return func(stream.Unit) { vm.navigate(ScreenDesignSheet, vm.src.ID()) }
}

func sheetTitle(src SheetSource) stream.Observable[string] {
	return stream.Distinct(stream.Map(src.Updates(), func(s *types.Sheet) string {
		if s == nil {
			return ""
		}
		return s.Name
	}))
}
