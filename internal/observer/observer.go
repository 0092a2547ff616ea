// Package observer provides synchronous subscriber lists.
//
// Subscribers are called in subscription order, on the caller's goroutine,
// from within Notify.
package observer

// List is a list of subscribers receiving values of type T.
// The zero value is ready to use.
type List[T any] struct {
	nextID int
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function removing it again.
// Calling the returned function more than once is a no-op.
func (l *List[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	l.nextID++
	id := l.nextID
	l.subs = append(l.subs, subscriber[T]{id: id, fn: fn})
	return func() {
		for i, s := range l.subs {
			if s.id == id {
				l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
				return
			}
		}
	}
}

// Notify calls every subscriber with v. Subscribers added or removed
// during Notify take effect on the next call.
func (l *List[T]) Notify(v T) {
	subs := l.subs
	for _, s := range subs {
		s.fn(v)
	}
}

// Len returns the number of subscribers.
func (l *List[T]) Len() int {
	return len(l.subs)
}
