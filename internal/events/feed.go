// Package events provides the synchronous typed notification feed used by the
// ordering components to report state changes.
package events

// Feed delivers values of type T to its subscribers, synchronously and in
// subscription order. The zero value is ready to use. A Feed is not safe for
// concurrent use; callers serialize access together with the state it reports on.
type Feed[T any] struct {
	nextID int
	subs   []subscription[T]
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function removing it again.
func (f *Feed[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	f.nextID++
	id := f.nextID
	f.subs = append(f.subs, subscription[T]{id: id, fn: fn})
	return func() { f.remove(id) }
}

// Publish hands v to every current subscriber. Subscribers added or removed
// while publishing take effect on the next Publish.
func (f *Feed[T]) Publish(v T) {
	if len(f.subs) == 0 {
		return
	}
	snapshot := make([]subscription[T], len(f.subs))
	copy(snapshot, f.subs)
	for _, sub := range snapshot {
		sub.fn(v)
	}
}

// Len reports the number of subscribers.
func (f *Feed[T]) Len() int {
	return len(f.subs)
}

func (f *Feed[T]) remove(id int) {
	for i, sub := range f.subs {
		if sub.id == id {
			f.subs = append(f.subs[:i:i], f.subs[i+1:]...)
			return
		}
	}
}
