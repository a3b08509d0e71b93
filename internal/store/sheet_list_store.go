package store

import (
	"fmt"
	"sync"

	"github.com/mesh-intelligence/formulacalc/internal/stream"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// SheetListStore follows the collection of all sheets, sorted by name with
// creation order breaking ties.
type SheetListStore struct {
	realm   types.Realm
	token   types.NotificationToken
	updates *stream.Subject[types.SheetListChange]
	reporter

	closeOnce sync.Once
}

// NewSheetListStore observes all sheets. When the database cannot be opened
// Updates replays one empty change and an error matching types.ErrDatabase
// is reported.
func NewSheetListStore(db types.SheetDatabase, errs types.ErrorReporter, opts ...Option) *SheetListStore {
	o := applyOptions(opts)
	s := &SheetListStore{
		updates:  stream.NewSubject(types.SheetListChange{}),
		reporter: reporter{errs: errs, logger: o.logger.Named("sheets")},
	}

	realm, err := db.Open()
	if err != nil {
		s.report(databaseError("sheet list store", err))
		return s
	}
	pub := &seeder[types.SheetListChange]{subject: s.updates}
	sheets, token, err := realm.ObserveSheets(pub.publish)
	if err != nil {
		realm.Close()
		s.report(databaseError("sheet list store", err))
		return s
	}
	s.realm, s.token = realm, token
	pub.seed(types.InitialChange(sheets))
	return s
}

// Updates replays the sorted sheet list with every index as an insertion
// and then one diff per committed change.
func (s *SheetListStore) Updates() stream.Observable[types.SheetListChange] {
	return s.updates
}

// Current returns the latest known list.
func (s *SheetListStore) Current() []types.Sheet {
	return s.updates.Value().List
}

// OnCreateNewSheet adds an empty sheet with a fresh id. Sheet names need not
// be unique.
func (s *SheetListStore) OnCreateNewSheet() stream.Sink[string] {
	return func(name string) {
		if s.realm == nil {
			s.report(fmt.Errorf("create sheet: %w", types.ErrDatabase))
			return
		}
		sheet := types.Sheet{ID: types.NewID(), Name: name}
		if err := s.realm.Write(func(tx types.WriteTx) error { return tx.AddSheet(sheet) }); err != nil {
			s.report(fmt.Errorf("create sheet %q: %w", name, err))
		}
	}
}

// OnDeleteSheet removes the sheet with the given id and its items. An
// unknown id reports ErrSheetNotFound.
func (s *SheetListStore) OnDeleteSheet() stream.Sink[string] {
	return func(id string) {
		if s.realm == nil {
			s.report(fmt.Errorf("delete sheet %s: %w", id, types.ErrSheetNotFound))
			return
		}
		if err := s.realm.Write(func(tx types.WriteTx) error { return tx.DeleteSheet(id) }); err != nil {
			s.report(fmt.Errorf("delete sheet %s: %w", id, err))
		}
	}
}

// Close stops observing the list.
func (s *SheetListStore) Close() error {
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
