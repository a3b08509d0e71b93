package types

import (
	"errors"
	"fmt"
)

// SheetDatabase is the access gate to the embedded sheet database.
// Callers open a Realm, read or write through it, and close it when done.
type SheetDatabase interface {
	// Open returns a handle to the database. The error wraps ErrDatabase
	// when the storage cannot be opened.
	Open() (Realm, error)
}

// Backend is a SheetDatabase with an explicit lifecycle.
type Backend interface {
	SheetDatabase

	// Attach opens the storage described by config. Returns
	// ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases the storage and stops every notification token.
	// After Detach, Open fails with ErrDatabase. Idempotent.
	Detach() error
}

// Realm is an open handle to the sheet database. Reads return snapshots;
// every mutation happens inside Write.
type Realm interface {
	// Sheet returns the sheet with the given id and its items.
	// Returns ErrSheetNotFound if no sheet exists with that id.
	Sheet(id string) (*Sheet, error)

	// Sheets returns all sheets sorted by name, creation order on ties.
	Sheets() ([]Sheet, error)

	// Item returns the item with the given id.
	// Returns ErrItemNotFound if no item exists with that id.
	Item(id string) (*SheetItem, error)

	// Write runs fn inside one transaction. When fn returns nil the
	// transaction commits and change notifications are delivered before
	// Write returns. When fn returns an error nothing is persisted.
	Write(fn func(tx WriteTx) error) error

	// ObserveSheet registers fn to receive the sheet (nil once deleted)
	// whenever it or its items change. It returns the current value.
	ObserveSheet(id string, fn func(*Sheet)) (*Sheet, NotificationToken, error)

	// ObserveSheets registers fn to receive diffs of the sorted sheet list.
	ObserveSheets(fn func(SheetListChange)) ([]Sheet, NotificationToken, error)

	// ObserveSheetItems registers fn to receive diffs of one sheet's items.
	ObserveSheetItems(sheetID string, fn func(ItemListChange)) ([]SheetItem, NotificationToken, error)

	// ObserveItem registers fn to receive the item (nil once deleted)
	// whenever one of its fields changes.
	ObserveItem(id string, fn func(*SheetItem)) (*SheetItem, NotificationToken, error)

	// Close releases the handle. Notification tokens stay valid until
	// stopped. Close is idempotent.
	Close() error
}

// WriteTx is the set of operations available inside Realm.Write. Reads
// through WriteTx see the transaction's own uncommitted writes; fn must not
// call back into the Realm.
type WriteTx interface {
	Sheet(id string) (*Sheet, error)
	AddSheet(sheet Sheet) error
	DeleteSheet(id string) error
	RenameSheet(id, name string) error
	AppendItem(sheetID string, item SheetItem) error
	RemoveItem(sheetID string, index int) error
	UpdateItem(id string, update func(item *SheetItem)) error
}

// NotificationToken cancels a change registration.
type NotificationToken interface {
	// Stop unregisters the callback. After Stop returns the callback is
	// never invoked again. Stop is idempotent.
	Stop()
}

// Database lifecycle errors.
var (
	ErrDatabase        = errors.New("database unavailable")
	ErrAlreadyAttached = errors.New("database is already attached")
	ErrRealmClosed     = errors.New("realm is closed")
)

// WithRealm opens a handle on db, runs fn, and closes the handle on every
// exit path. A close failure is returned only when fn succeeded.
func WithRealm(db SheetDatabase, fn func(realm Realm) error) (err error) {
	realm, err := db.Open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := realm.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing realm: %w", cerr)
		}
	}()
	return fn(realm)
}
