package stream

// Map derives an observable that delivers f(v) for every v of src.
func Map[A, B any](src Observable[A], f func(A) B) Observable[B] {
	return Func[B](func(fn func(B)) Subscription {
		return src.Subscribe(func(v A) { fn(f(v)) })
	})
}

// Filter derives an observable that delivers only the values of src for
// which keep returns true.
func Filter[T any](src Observable[T], keep func(T) bool) Observable[T] {
	return Func[T](func(fn func(T)) Subscription {
		return src.Subscribe(func(v T) {
			if keep(v) {
				fn(v)
			}
		})
	})
}

// Distinct suppresses values equal to the previous one delivered to the
// same subscriber.
func Distinct[T comparable](src Observable[T]) Observable[T] {
	return DistinctBy(src, func(v T) T { return v })
}

// DistinctBy suppresses values whose key equals the key of the previous
// value delivered to the same subscriber.
func DistinctBy[T any, K comparable](src Observable[T], key func(T) K) Observable[T] {
	return Func[T](func(fn func(T)) Subscription {
		var (
			last    K
			started bool
		)
		return src.Subscribe(func(v T) {
			k := key(v)
			if started && k == last {
				return
			}
			started = true
			last = k
			fn(v)
		})
	})
}

// Sink is a write-only command entry point.
type Sink[T any] func(T)

// Send passes v to the sink. A nil sink drops v.
func (s Sink[T]) Send(v T) {
	if s != nil {
		s(v)
	}
}

// MapSink returns a sink that converts its input with f before sending it
// to s.
func MapSink[A, B any](s Sink[B], f func(A) B) Sink[A] {
	return func(v A) { s.Send(f(v)) }
}

// Unit is the value type of sinks that carry no payload.
type Unit = struct{}
