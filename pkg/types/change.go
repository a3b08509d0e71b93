package types

// ListChange describes one notification of an ordered collection: the list as
// it is now, plus the positions that changed. Deletions are indices into the
// previous list; Insertions and Modifications are indices into List. Apply
// them in the order deletions, insertions, modifications.
type ListChange[T any] struct {
	List          []T
	Deletions     []int
	Insertions    []int
	Modifications []int
}

// SheetListChange is a change of the sorted collection of all sheets.
type SheetListChange = ListChange[Sheet]

// ItemListChange is a change of one sheet's item collection.
type ItemListChange = ListChange[SheetItem]

// InitialChange reports every element of list as an insertion. It is the
// first event of every collection stream.
func InitialChange[T any](list []T) ListChange[T] {
	ins := make([]int, len(list))
	for i := range ins {
		ins[i] = i
	}
	return ListChange[T]{List: list, Insertions: ins}
}

// Empty reports whether the change carries no diff entries.
func (c ListChange[T]) Empty() bool {
	return len(c.Deletions) == 0 && len(c.Insertions) == 0 && len(c.Modifications) == 0
}
