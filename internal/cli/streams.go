package cli

import (
	"github.com/mesh-intelligence/formulacalc/internal/stream"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// current returns the value o replays on subscription.
func current[T any](o stream.Observable[T]) T {
	var v T
	o.Subscribe(func(x T) { v = x }).Dispose()
	return v
}

// inserted records the keys of elements inserted by every change after the
// replayed one. Dispose the subscription when done.
func inserted[T any](o stream.Observable[types.ListChange[T]], key func(T) string) (*[]string, stream.Subscription) {
	var ids []string
	replayed := false
	sub := o.Subscribe(func(c types.ListChange[T]) {
		if !replayed {
			replayed = true
			return
		}
		for _, i := range c.Insertions {
			ids = append(ids, key(c.List[i]))
		}
	})
	return &ids, sub
}
