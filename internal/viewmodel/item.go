package viewmodel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/formulacalc/internal/stream"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// ItemViewModel drives the screen listing one item's properties.
type ItemViewModel struct {
	navigator
	src ItemSource
	loc *Localizer
}

// NewItemViewModel creates the view model for the item behind src.
func NewItemViewModel(src ItemSource, loc *Localizer) *ItemViewModel {
	return &ItemViewModel{navigator: newNavigator(), src: src, loc: loc}
}

// itemField maps the item to a display value, "" (or zero) when absent, and
// suppresses repeats.
func itemField[T comparable](src ItemSource, absent T, f func(types.SheetItem) T) stream.Observable[T] {
	return stream.Distinct(stream.Map(src.Updates(), func(it *types.SheetItem) T {
		if it == nil {
			return absent
		}
		return f(*it)
	}))
}

// Title emits the screen title, which is the item name.
func (vm *ItemViewModel) Title() stream.Observable[string] {
	return vm.Name()
}

func (vm *ItemViewModel) Name() stream.Observable[string] {
	return itemField(vm.src, "", func(it types.SheetItem) string { return it.Name })
}

// Type emits the localized type label.
func (vm *ItemViewModel) Type() stream.Observable[string] {
	return itemField(vm.src, "", func(it types.SheetItem) string { return vm.loc.ItemType(it.Type) })
}

// Formula emits the formula while the item is a formula item.
func (vm *ItemViewModel) Formula() stream.Observable[string] {
	formulaItems := stream.Filter(vm.src.Updates(), func(it *types.SheetItem) bool {
		return it != nil && it.Type == types.ItemTypeFormula
	})
	return stream.Distinct(stream.Map(formulaItems, func(it *types.SheetItem) string { return it.Formula }))
}

// Visible emits true for absent items.
func (vm *ItemViewModel) Visible() stream.Observable[bool] {
	return itemField(vm.src, true, func(it types.SheetItem) bool { return it.Visible })
}

// Format emits the display option summary, such as "Thousand separator, Auto".
func (vm *ItemViewModel) Format() stream.Observable[string] {
	return itemField(vm.src, "", vm.loc.Format)
}

// OnChangeVisible shows or hides the item on the sheet screen.
func (vm *ItemViewModel) OnChangeVisible() stream.Sink[bool] {
	return vm.src.OnUpdateVisible()
}

// OnSelectName opens the name editor.
func (vm *ItemViewModel) OnSelectName() stream.Sink[stream.Unit] {
	return func(stream.Unit) { vm.navigate(ScreenItemName, vm.src.ID()) }
}

// OnSelectType opens the type chooser.
func (vm *ItemViewModel) OnSelectType() stream.Sink[stream.Unit] {
	return func(stream.Unit) { vm.navigate(ScreenItemType, vm.src.ID()) }
}

// OnSelectFormula opens the formula editor.
func (vm *ItemViewModel) OnSelectFormula() stream.Sink[stream.Unit] {
	return func(stream.Unit) { vm.navigate(ScreenFormula, vm.src.ID()) }
}

// OnSelectFormat opens the format options.
func (vm *ItemViewModel) OnSelectFormat() stream.Sink[stream.Unit] {
	return func(stream.Unit) { vm.navigate(ScreenItemFormat, vm.src.ID()) }
}

// ItemNameViewModel edits an item's name.
type ItemNameViewModel struct {
	src  ItemSource
	errs types.ErrorReporter
}

// NewItemNameViewModel creates the name editor. Rejected names are reported to errs.
func NewItemNameViewModel(src ItemSource, errs types.ErrorReporter) *ItemNameViewModel {
	return &ItemNameViewModel{src: src, errs: errs}
}

func (vm *ItemNameViewModel) Name() stream.Observable[string] {
	return itemField(vm.src, "", func(it types.SheetItem) string { return it.Name })
}

// OnDone stores the trimmed name. Blank names report ErrInvalidName and
// leave the item unchanged.
func (vm *ItemNameViewModel) OnDone() stream.Sink[string] {
	return func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			if vm.errs != nil {
				vm.errs.Report(types.ErrInvalidName)
			}
			return
		}
		vm.src.OnUpdateName().Send(name)
	}
}

// FormulaViewModel edits the formula text of an item.
type FormulaViewModel struct {
	src ItemSource
}

// NewFormulaViewModel creates the formula editor for the item behind src.
func NewFormulaViewModel(src ItemSource) *FormulaViewModel {
	return &FormulaViewModel{src: src}
}

func (vm *FormulaViewModel) Formula() stream.Observable[string] {
	return itemField(vm.src, "", func(it types.SheetItem) string { return it.Formula })
}

// OnDone stores the formula text unchanged.
func (vm *FormulaViewModel) OnDone() stream.Sink[string] {
	return vm.src.OnUpdateFormula()
}

// ItemValueViewModel edits an item's value as text.
type ItemValueViewModel struct {
	src  ItemSource
	errs types.ErrorReporter
}

// NewItemValueViewModel creates the value editor for the item behind src.
// Rejected input is reported to errs.
func NewItemValueViewModel(src ItemSource, errs types.ErrorReporter) *ItemValueViewModel {
	return &ItemValueViewModel{src: src, errs: errs}
}

// Value emits the editable text of the value: the plain number for numeric
// items, the text for string items and "" for formula items.
func (vm *ItemValueViewModel) Value() stream.Observable[string] {
	return itemField(vm.src, "", func(it types.SheetItem) string {
		switch it.Type {
		case types.ItemTypeNumeric:
			return strconv.FormatFloat(it.NumberValue, 'f', -1, 64)
		case types.ItemTypeString:
			return it.StringValue
		}
		return ""
	})
}

// OnDone stores text as the value the item's current type holds. Numeric
// items need a finite number; anything else reports ErrInvalidNumber.
// Formula items ignore the entry.
func (vm *ItemValueViewModel) OnDone() stream.Sink[string] {
	return func(text string) {
		cur := vm.current()
		if cur == nil {
			vm.report(types.ErrItemNotFound)
			return
		}
		switch cur.Type {
		case types.ItemTypeNumeric:
			n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
			if err != nil {
				vm.report(fmt.Errorf("%q: %w", text, types.ErrInvalidNumber))
				return
			}
			vm.OnNumber().Send(n)
		case types.ItemTypeString:
			vm.OnString().Send(text)
		}
	}
}

// OnNumber stores n as the number value. NaN and infinities report
// ErrInvalidNumber.
func (vm *ItemValueViewModel) OnNumber() stream.Sink[float64] {
	return func(n float64) {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			vm.report(fmt.Errorf("%v: %w", n, types.ErrInvalidNumber))
			return
		}
		vm.src.OnUpdateNumberValue().Send(n)
	}
}

// OnString stores s as the string value.
func (vm *ItemValueViewModel) OnString() stream.Sink[string] {
	return vm.src.OnUpdateStringValue()
}

func (vm *ItemValueViewModel) current() *types.SheetItem {
	var cur *types.SheetItem
	sub := vm.src.Updates().Subscribe(func(it *types.SheetItem) { cur = it })
	sub.Dispose()
	return cur
}

func (vm *ItemValueViewModel) report(err error) {
	if vm.errs != nil {
		vm.errs.Report(err)
	}
}
