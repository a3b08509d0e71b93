package store

import "github.com/mesh-intelligence/formulacalc/pkg/types"

// Factory builds stores that share one database and error reporter.
// View models depend on the narrow interfaces it satisfies rather than on
// the Factory itself.
type Factory struct {
	db   types.SheetDatabase
	errs types.ErrorReporter
	opts []Option
}

// NewFactory returns a Factory for db. Every store it builds reports to errs.
func NewFactory(db types.SheetDatabase, errs types.ErrorReporter, opts ...Option) *Factory {
	return &Factory{db: db, errs: errs, opts: opts}
}

// ItemStore opens a store for one item.
func (f *Factory) ItemStore(itemID string) *ItemStore {
	return NewItemStore(f.db, f.errs, itemID, f.opts...)
}

// SheetStore opens a store for one sheet.
func (f *Factory) SheetStore(sheetID string) *SheetStore {
	return NewSheetStore(f.db, f.errs, sheetID, f.opts...)
}

// SheetListStore opens a store for the list of sheets.
func (f *Factory) SheetListStore() *SheetListStore {
	return NewSheetListStore(f.db, f.errs, f.opts...)
}
