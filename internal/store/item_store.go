package store

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/formulacalc/internal/stream"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// ItemStore follows one sheet item.
type ItemStore struct {
	id      string
	realm   types.Realm
	token   types.NotificationToken
	updates *stream.Subject[*types.SheetItem]
	reporter

	closeOnce sync.Once
}

// NewItemStore observes the item with the given id. When the database cannot
// be opened the store still works: Updates replays nil, an error matching
// types.ErrDatabase is reported, and every command reports ErrItemNotFound.
func NewItemStore(db types.SheetDatabase, errs types.ErrorReporter, itemID string, opts ...Option) *ItemStore {
	o := applyOptions(opts)
	s := &ItemStore{
		id:       itemID,
		updates:  stream.NewSubject[*types.SheetItem](nil),
		reporter: reporter{errs: errs, logger: o.logger.Named("item").With(zap.String("item_id", itemID))},
	}

	realm, err := db.Open()
	if err != nil {
		s.report(databaseError("item store", err))
		return s
	}
	pub := &seeder[*types.SheetItem]{subject: s.updates}
	initial, token, err := realm.ObserveItem(itemID, pub.publish)
	if err != nil {
		realm.Close()
		s.report(databaseError("item store", err))
		return s
	}
	s.realm, s.token = realm, token
	pub.seed(initial)
	return s
}

// ID returns the id of the observed item.
func (s *ItemStore) ID() string { return s.id }

// Updates replays the current item (nil when absent) and then every change.
// After the item is deleted it emits nil.
func (s *ItemStore) Updates() stream.Observable[*types.SheetItem] {
	return s.updates
}

// Current returns the latest known snapshot, or nil.
func (s *ItemStore) Current() *types.SheetItem {
	return s.updates.Value()
}

// OnUpdateName sets the item name.
func (s *ItemStore) OnUpdateName() stream.Sink[string] {
	return func(name string) {
		s.update("name", func(it *types.SheetItem) { it.Name = name })
	}
}

// OnUpdateType sets the item type. Unknown types report ErrInvalidItemType.
func (s *ItemStore) OnUpdateType() stream.Sink[types.ItemType] {
	return func(t types.ItemType) {
		s.update("type", func(it *types.SheetItem) { it.Type = t })
	}
}

// OnUpdateNumberValue sets the value used by numeric items.
func (s *ItemStore) OnUpdateNumberValue() stream.Sink[float64] {
	return func(v float64) {
		s.update("number value", func(it *types.SheetItem) { it.NumberValue = v })
	}
}

// OnUpdateStringValue sets the value used by string items.
func (s *ItemStore) OnUpdateStringValue() stream.Sink[string] {
	return func(v string) {
		s.update("string value", func(it *types.SheetItem) { it.StringValue = v })
	}
}

// OnUpdateFormula sets the formula text.
func (s *ItemStore) OnUpdateFormula() stream.Sink[string] {
	return func(f string) {
		s.update("formula", func(it *types.SheetItem) { it.Formula = f })
	}
}

// OnUpdateThousandSeparator turns digit grouping on or off.
func (s *ItemStore) OnUpdateThousandSeparator() stream.Sink[bool] {
	return func(on bool) {
		s.update("thousand separator", func(it *types.SheetItem) { it.ThousandSeparator = on })
	}
}

// OnUpdateFractionDigits clamps its input: negative values mean automatic,
// values above types.FractionDigitsMax are capped.
func (s *ItemStore) OnUpdateFractionDigits() stream.Sink[int] {
	return func(n int) {
		n = types.ClampFractionDigits(n)
		s.update("fraction digits", func(it *types.SheetItem) { it.FractionDigits = n })
	}
}

// OnUpdateVisible shows or hides the item on the sheet screen.
func (s *ItemStore) OnUpdateVisible() stream.Sink[bool] {
	return func(on bool) {
		s.update("visible", func(it *types.SheetItem) { it.Visible = on })
	}
}

// update writes one field of the item.
func (s *ItemStore) update(field string, set func(it *types.SheetItem)) {
	if s.realm == nil || s.updates.Value() == nil {
		s.report(fmt.Errorf("update %s of item %s: %w", field, s.id, types.ErrItemNotFound))
		return
	}
	err := s.realm.Write(func(tx types.WriteTx) error {
		return tx.UpdateItem(s.id, set)
	})
	if err != nil {
		s.report(fmt.Errorf("update %s of item %s: %w", field, s.id, err))
	}
}

// Close stops observing the item. Commands issued afterwards fail.
func (s *ItemStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.token != nil {
			s.token.Stop()
		}
		if s.realm != nil {
			err = s.realm.Close()
		}
	})
	return err
}
