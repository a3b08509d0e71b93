// Package stream provides the synchronous observable primitives the stores
// are built on.
//
// # Subjects
//
// Subject is a "current + changes" broadcaster: it retains the last
// published value and replays it to every new subscriber before delivering
// later values. Publisher is push-only: subscribers see only values
// published after they subscribed.
//
//	s := stream.NewSubject(0)
//	sub := s.Subscribe(func(v int) { fmt.Println(v) }) // prints 0
//	s.Publish(1)                                        // prints 1
//	sub.Dispose()
//
// Delivery is synchronous on the publishing goroutine and happens outside
// the subject's lock, so callbacks may publish or subscribe again.
//
// # Operators
//
// Map, Filter, Distinct and DistinctBy derive new observables. They keep
// per-subscription state, so each subscriber of a derived stream sees its
// own deduplication window.
//
// # Sinks
//
// Sink is a write-only command entry point. MapSink adapts a sink to accept
// a different input type.
package stream
