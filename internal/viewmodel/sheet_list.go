package viewmodel

import (
	"strings"

	"github.com/mesh-intelligence/formulacalc/internal/stream"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// SheetListElement is one row of the sheet list.
type SheetListElement struct {
	ID    string
	Title string
}

// SheetListViewModel drives the list of sheets.
type SheetListViewModel struct {
	navigator
	src SheetListSource
	loc *Localizer
}

// NewSheetListViewModel creates the sheet list screen.
func NewSheetListViewModel(src SheetListSource, loc *Localizer) *SheetListViewModel {
	return &SheetListViewModel{navigator: newNavigator(), src: src, loc: loc}
}

// SheetList emits the rows in list order.
func (vm *SheetListViewModel) SheetList() stream.Observable[[]SheetListElement] {
	return stream.Map(vm.src.Updates(), func(c types.SheetListChange) []SheetListElement {
		out := make([]SheetListElement, len(c.List))
		for i, s := range c.List {
			out[i] = SheetListElement{ID: s.ID, Title: s.Name}
		}
		return out
	})
}

// OnNew creates a sheet. A blank name is replaced by the localized default.
func (vm *SheetListViewModel) OnNew() stream.Sink[string] {
	return func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			name = vm.loc.NewSheetName()
		}
		vm.src.OnCreateNewSheet().Send(name)
	}
}

// OnDelete removes the element's sheet.
func (vm *SheetListViewModel) OnDelete() stream.Sink[SheetListElement] {
	return stream.MapSink(vm.src.OnDeleteSheet(), func(e SheetListElement) string { return e.ID })
}

// OnSelect opens the sheet screen.
func (vm *SheetListViewModel) OnSelect() stream.Sink[SheetListElement] {
	return func(e SheetListElement) { vm.navigate(ScreenSheet, e.ID) }
}
