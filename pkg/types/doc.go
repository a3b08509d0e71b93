// Package types defines the sheet and item entities, their snapshots and
// collection diffs, the SheetDatabase and Realm interfaces, and the standard
// errors shared by the formulacalc storage and store layers.
package types
