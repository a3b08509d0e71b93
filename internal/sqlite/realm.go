package sqlite

import (
	"errors"
	"slices"
	"sync/atomic"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// realm implements types.Realm. Realms are cheap; they share the backend's
// connection and observer registry.
type realm struct {
	backend *Backend
	closed  atomic.Bool
}

func (r *realm) Sheet(id string) (*types.Sheet, error) {
	if r.closed.Load() {
		return nil, types.ErrRealmClosed
	}
	var s *types.Sheet
	err := r.backend.read(func(q querier) (err error) {
		s, err = loadSheet(q, id)
		return err
	})
	return s, err
}

func (r *realm) Sheets() ([]types.Sheet, error) {
	if r.closed.Load() {
		return nil, types.ErrRealmClosed
	}
	var sheets []types.Sheet
	err := r.backend.read(func(q querier) (err error) {
		sheets, err = loadSheets(q)
		return err
	})
	return sheets, err
}

func (r *realm) Item(id string) (*types.SheetItem, error) {
	if r.closed.Load() {
		return nil, types.ErrRealmClosed
	}
	var it *types.SheetItem
	err := r.backend.read(func(q querier) (err error) {
		it, err = loadItem(q, id)
		return err
	})
	return it, err
}

// Write commits fn and, when anything changed, delivers notifications before
// returning.
func (r *realm) Write(fn func(tx types.WriteTx) error) error {
	if r.closed.Load() {
		return types.ErrRealmClosed
	}
	changed, err := r.backend.write(func(tx *writeTx) error { return fn(tx) })
	if err != nil {
		return err
	}
	if changed {
		r.backend.notify()
	}
	return nil
}

func (r *realm) ObserveSheet(id string, fn func(*types.Sheet)) (*types.Sheet, types.NotificationToken, error) {
	if r.closed.Load() {
		return nil, nil, types.ErrRealmClosed
	}

	var last *types.Sheet
	initial := func(q querier) error {
		s, err := loadSheetOrNil(q, id)
		last = s
		return err
	}
	poll := func(q querier) (func(), error) {
		s, err := loadSheetOrNil(q, id)
		if err != nil {
			return nil, err
		}
		if equalPtr(last, s, types.Sheet.Equal) {
			return nil, nil
		}
		last = s
		out := cloneSheet(s)
		return func() { fn(out) }, nil
	}

	tok, err := r.backend.register("sheet", initial, poll)
	if err != nil {
		return nil, nil, err
	}
	return cloneSheet(last), tok, nil
}

func (r *realm) ObserveSheets(fn func(types.SheetListChange)) ([]types.Sheet, types.NotificationToken, error) {
	if r.closed.Load() {
		return nil, nil, types.ErrRealmClosed
	}

	var last []types.Sheet
	initial := func(q querier) (err error) {
		last, err = loadSheets(q)
		return err
	}
	poll := func(q querier) (func(), error) {
		cur, err := loadSheets(q)
		if err != nil {
			return nil, err
		}
		change := diffList(last, cur, sheetKey, types.Sheet.Equal)
		if change.Empty() {
			return nil, nil
		}
		last = cur
		change.List = cloneSheets(cur)
		return func() { fn(change) }, nil
	}

	tok, err := r.backend.register("sheets", initial, poll)
	if err != nil {
		return nil, nil, err
	}
	return cloneSheets(last), tok, nil
}

func (r *realm) ObserveSheetItems(sheetID string, fn func(types.ItemListChange)) ([]types.SheetItem, types.NotificationToken, error) {
	if r.closed.Load() {
		return nil, nil, types.ErrRealmClosed
	}

	var last []types.SheetItem
	initial := func(q querier) (err error) {
		last, err = loadItems(q, sheetID)
		return err
	}
	poll := func(q querier) (func(), error) {
		cur, err := loadItems(q, sheetID)
		if err != nil {
			return nil, err
		}
		change := diffList(last, cur, itemKey, equalItem)
		if change.Empty() {
			return nil, nil
		}
		last = cur
		change.List = slices.Clone(cur)
		return func() { fn(change) }, nil
	}

	tok, err := r.backend.register("sheet items", initial, poll)
	if err != nil {
		return nil, nil, err
	}
	return slices.Clone(last), tok, nil
}

func (r *realm) ObserveItem(id string, fn func(*types.SheetItem)) (*types.SheetItem, types.NotificationToken, error) {
	if r.closed.Load() {
		return nil, nil, types.ErrRealmClosed
	}

	var last *types.SheetItem
	initial := func(q querier) error {
		it, err := loadItemOrNil(q, id)
		last = it
		return err
	}
	poll := func(q querier) (func(), error) {
		it, err := loadItemOrNil(q, id)
		if err != nil {
			return nil, err
		}
		if equalPtr(last, it, equalItem) {
			return nil, nil
		}
		last = it
		out := cloneItem(it)
		return func() { fn(out) }, nil
	}

	tok, err := r.backend.register("item", initial, poll)
	if err != nil {
		return nil, nil, err
	}
	return cloneItem(last), tok, nil
}

// Close marks the handle closed. Tokens obtained from it keep working until
// stopped.
func (r *realm) Close() error {
	r.closed.Store(true)
	return nil
}

func loadSheetOrNil(q querier, id string) (*types.Sheet, error) {
	s, err := loadSheet(q, id)
	if errors.Is(err, types.ErrSheetNotFound) {
		return nil, nil
	}
	return s, err
}

func loadItemOrNil(q querier, id string) (*types.SheetItem, error) {
	it, err := loadItem(q, id)
	if errors.Is(err, types.ErrItemNotFound) {
		return nil, nil
	}
	return it, err
}

func sheetKey(s types.Sheet) string    { return s.ID }
func itemKey(it types.SheetItem) string { return it.ID }

func equalItem(a, b types.SheetItem) bool { return a == b }

func equalPtr[T any](a, b *T, equal func(T, T) bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return equal(*a, *b)
}

func cloneSheet(s *types.Sheet) *types.Sheet {
	if s == nil {
		return nil
	}
	c := s.Clone()
	return &c
}

func cloneSheets(sheets []types.Sheet) []types.Sheet {
	out := make([]types.Sheet, len(sheets))
	for i, s := range sheets {
		out[i] = s.Clone()
	}
	return out
}

func cloneItem(it *types.SheetItem) *types.SheetItem {
	if it == nil {
		return nil
	}
	c := *it
	return &c
}
