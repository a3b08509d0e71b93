package types

import "errors"

// Entity errors. Store commands report these through an ErrorReporter
// instead of returning them.
var (
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidItemType = errors.New("invalid item type")
	ErrIndexOutOfRange = errors.New("item index out of range")
	ErrInvalidNumber   = errors.New("invalid number")
)

// ErrorReporter receives failures that happen away from the caller, such as
// a store command referencing a sheet that was deleted meanwhile.
type ErrorReporter interface {
	Report(err error)
}
