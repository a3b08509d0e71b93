package store

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/formulacalc/internal/stream"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// defaultItemNameFormat is the pattern for synthesized item names.
const defaultItemNameFormat = "Item %d"

// SheetStore follows one sheet and its item collection.
type SheetStore struct {
	id     string
	realm  types.Realm
	tokens []types.NotificationToken

	updates *stream.Subject[*types.Sheet]
	items   *stream.Subject[types.ItemListChange]
	reporter

	// lastNewItemNumber only grows, so a number is never offered twice by
	// the same store even after the item carrying it was deleted.
	lastNewItemNumber atomic.Int64

	closeOnce sync.Once
}

// NewSheetStore observes the sheet with the given id. If the sheet does not
// exist, Updates replays nil and ItemListUpdates replays one empty change
// that never transitions. When the database cannot be opened the store
// behaves the same and reports an error matching types.ErrDatabase.
func NewSheetStore(db types.SheetDatabase, errs types.ErrorReporter, sheetID string, opts ...Option) *SheetStore {
	o := applyOptions(opts)
	s := &SheetStore{
		id:       sheetID,
		updates:  stream.NewSubject[*types.Sheet](nil),
		items:    stream.NewSubject(types.ItemListChange{}),
		reporter: reporter{errs: errs, logger: o.logger.Named("sheet").With(zap.String("sheet_id", sheetID))},
	}

	realm, err := db.Open()
	if err != nil {
		s.report(databaseError("sheet store", err))
		return s
	}
	if err := s.observe(realm); err != nil {
		s.stopTokens()
		realm.Close()
		s.report(databaseError("sheet store", err))
		return s
	}
	s.realm = realm
	return s
}

func (s *SheetStore) observe(realm types.Realm) error {
	sheetPub := &seeder[*types.Sheet]{subject: s.updates}
	sheet, token, err := realm.ObserveSheet(s.id, sheetPub.publish)
	if err != nil {
		return err
	}
	s.tokens = append(s.tokens, token)
	sheetPub.seed(sheet)
	if sheet == nil {
		return nil
	}

	itemsPub := &seeder[types.ItemListChange]{subject: s.items}
	items, token, err := realm.ObserveSheetItems(s.id, itemsPub.publish)
	if err != nil {
		return err
	}
	s.tokens = append(s.tokens, token)
	itemsPub.seed(types.InitialChange(items))
	return nil
}

// ID returns the id of the observed sheet.
func (s *SheetStore) ID() string { return s.id }

// Updates replays the current sheet (nil when absent) and then every change.
func (s *SheetStore) Updates() stream.Observable[*types.Sheet] {
	return s.updates
}

// ItemListUpdates replays the item list with every index as an insertion
// and then one diff per committed change.
func (s *SheetStore) ItemListUpdates() stream.Observable[types.ItemListChange] {
	return s.items
}

// Current returns the latest known snapshot, or nil.
func (s *SheetStore) Current() *types.Sheet {
	return s.updates.Value()
}

// OnUpdateName renames the sheet.
func (s *SheetStore) OnUpdateName() stream.Sink[string] {
	return func(name string) {
		if s.missing("rename sheet") {
			return
		}
		err := s.realm.Write(func(tx types.WriteTx) error {
			return tx.RenameSheet(s.id, name)
		})
		if err != nil {
			s.report(fmt.Errorf("rename sheet %s: %w", s.id, err))
		}
	}
}

// OnNewItem appends a numeric item named "Item N", where N is the next
// number of this store's counter whose name is free in the sheet.
func (s *SheetStore) OnNewItem() stream.Sink[stream.Unit] {
	return func(stream.Unit) {
		if s.missing("new item") {
			return
		}
		err := s.realm.Write(func(tx types.WriteTx) error {
			sheet, err := tx.Sheet(s.id)
			if err != nil {
				return err
			}
			item := types.NewSheetItem(types.NewID(), s.nextItemName(sheet))
			return tx.AppendItem(s.id, item)
		})
		if err != nil {
			s.report(fmt.Errorf("new item in sheet %s: %w", s.id, err))
		}
	}
}

func (s *SheetStore) nextItemName(sheet *types.Sheet) string {
	for {
		name := fmt.Sprintf(defaultItemNameFormat, s.lastNewItemNumber.Add(1))
		if !sheet.HasItemNamed(name) {
			return name
		}
	}
}

// OnDeleteItem removes the item with the given id from the sheet.
func (s *SheetStore) OnDeleteItem() stream.Sink[string] {
	return func(itemID string) {
		if s.missing("delete item") {
			return
		}
		err := s.realm.Write(func(tx types.WriteTx) error {
			sheet, err := tx.Sheet(s.id)
			if err != nil {
				return err
			}
			index := sheet.ItemIndex(itemID)
			if index < 0 {
				return types.ErrItemNotFound
			}
			return tx.RemoveItem(s.id, index)
		})
		if err != nil {
			s.report(fmt.Errorf("delete item %s: %w", itemID, err))
		}
	}
}

// missing reports ErrSheetNotFound when the latest snapshot is absent.
func (s *SheetStore) missing(op string) bool {
	if s.realm != nil && s.updates.Value() != nil {
		return false
	}
	s.report(fmt.Errorf("%s: sheet %s: %w", op, s.id, types.ErrSheetNotFound))
	return true
}

func (s *SheetStore) stopTokens() {
	for _, t := range s.tokens {
		t.Stop()
	}
	s.tokens = nil
}

// Close stops observing the sheet. Commands issued afterwards fail.
func (s *SheetStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.stopTokens()
		if s.realm != nil {
			err = s.realm.Close()
		}
	})
	return err
}
