// Package viewmodel derives display-ready streams from the stores and maps
// user intents back onto store command sinks.
//
// View models hold no state of their own beyond a transition publisher:
// every output is a stream.Map of a store stream, so subscribing replays the
// current screen contents at once. Elements of list screens are plain
// values built from the latest snapshot.
package viewmodel

import (
	"github.com/mesh-intelligence/formulacalc/internal/stream"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// Screen identifies the destination of a Transition.
type Screen string

// Screens.
const (
	ScreenSheet       Screen = "sheet"
	ScreenDesignSheet Screen = "design-sheet"
	ScreenItem        Screen = "item"
	ScreenItemName    Screen = "item-name"
	ScreenItemType    Screen = "item-type"
	ScreenFormula     Screen = "formula"
	ScreenItemFormat  Screen = "item-format"
	ScreenDismiss     Screen = "dismiss"
)

// Transition asks the presentation layer to show Screen for the entity ID.
type Transition struct {
	Screen Screen
	ID     string
}

// SheetListSource is the part of a sheet list store the list screen needs.
type SheetListSource interface {
	Updates() stream.Observable[types.SheetListChange]
	OnCreateNewSheet() stream.Sink[string]
	OnDeleteSheet() stream.Sink[string]
}

// SheetSource is the part of a sheet store the sheet screens need.
type SheetSource interface {
	ID() string
	Updates() stream.Observable[*types.Sheet]
	ItemListUpdates() stream.Observable[types.ItemListChange]
	OnUpdateName() stream.Sink[string]
	OnNewItem() stream.Sink[stream.Unit]
	OnDeleteItem() stream.Sink[string]
}

// ItemSource is the part of an item store the item screens need.
type ItemSource interface {
	ID() string
	Updates() stream.Observable[*types.SheetItem]
	OnUpdateName() stream.Sink[string]
	OnUpdateType() stream.Sink[types.ItemType]
	OnUpdateNumberValue() stream.Sink[float64]
	OnUpdateStringValue() stream.Sink[string]
	OnUpdateFormula() stream.Sink[string]
	OnUpdateThousandSeparator() stream.Sink[bool]
	OnUpdateFractionDigits() stream.Sink[int]
	OnUpdateVisible() stream.Sink[bool]
}

// navigator publishes transitions. Embedded by view models that navigate.
type navigator struct {
	transitions *stream.Publisher[Transition]
}

func newNavigator() navigator {
	return navigator{transitions: stream.NewPublisher[Transition]()}
}

// Transitions is the push-only stream of navigation requests.
func (n navigator) Transitions() stream.Observable[Transition] {
	return n.transitions
}

func (n navigator) navigate(screen Screen, id string) {
	n.transitions.Publish(Transition{Screen: screen, ID: id})
}
