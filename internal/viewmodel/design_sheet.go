package viewmodel

import (
	"github.com/mesh-intelligence/formulacalc/internal/stream"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// DesignSheetElement is one item as shown while designing a sheet.
type DesignSheetElement struct {
	ID     string
	Name   string
	Type   string
	Hidden bool
}

// DesignSheetViewModel drives the screen that edits a sheet's item layout.
type DesignSheetViewModel struct {
	navigator
	src SheetSource
	loc *Localizer
}

// NewDesignSheetViewModel creates the design screen of the sheet behind src.
func NewDesignSheetViewModel(src SheetSource, loc *Localizer) *DesignSheetViewModel {
	return &DesignSheetViewModel{navigator: newNavigator(), src: src, loc: loc}
}

// Title emits the sheet name.
func (vm *DesignSheetViewModel) Title() stream.Observable[string] {
	return sheetTitle(vm.src)
}

// ItemList emits every item, hidden ones included.
func (vm *DesignSheetViewModel) ItemList() stream.Observable[[]DesignSheetElement] {
	return stream.Map(vm.src.ItemListUpdates(), func(c types.ItemListChange) []DesignSheetElement {
		out := make([]DesignSheetElement, len(c.List))
		for i, it := range c.List {
			out[i] = DesignSheetElement{
				ID:     it.ID,
				Name:   it.Name,
				Type:   vm.loc.ItemType(it.Type),
				Hidden: !it.Visible,
			}
		}
		return out
	})
}

// OnNewItem appends an item with the next default name.
func (vm *DesignSheetViewModel) OnNewItem() stream.Sink[stream.Unit] {
	return vm.src.OnNewItem()
}

// OnDeleteItem removes the element's item.
func (vm *DesignSheetViewModel) OnDeleteItem() stream.Sink[DesignSheetElement] {
	return stream.MapSink(vm.src.OnDeleteItem(), func(e DesignSheetElement) string { return e.ID })
}

// OnUpdateName renames the sheet.
func (vm *DesignSheetViewModel) OnUpdateName() stream.Sink[string] {
	return vm.src.OnUpdateName()
}

// OnSelectItem opens the item screen.
func (vm *DesignSheetViewModel) OnSelectItem() stream.Sink[DesignSheetElement] {
	return func(e DesignSheetElement) { vm.navigate(ScreenItem, e.ID) }
}

// OnDone leaves the design screen.
func (vm *DesignSheetViewModel) OnDone() stream.Sink[stream.Unit] {
	return func(stream.Unit) { vm.navigate(ScreenDismiss, vm.src.ID()) }
}
