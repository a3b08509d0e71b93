// Package store turns sheet database change notifications into streams.
//
// Each store observes one target (an item, a sheet, or the sheet list)
// through a types.Realm and republishes snapshots on a replay-of-one
// stream.Subject, so a new subscriber immediately receives the current
// value. Mutations are exposed as command sinks; a command never returns an
// error to its caller. Failures such as a reference to a deleted sheet go to
// the types.ErrorReporter given at construction, usually an ErrorStore.
//
// Stores hold notification tokens and must be closed when no longer used.
package store
